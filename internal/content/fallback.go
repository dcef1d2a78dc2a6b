package content

import "github.com/verte-zerg/lophoc/internal/model"

// FallbackName identifies the static item list.
const FallbackName = "fallback"

var fallbackItems = []model.Item{
	{ID: "1", Text: "Con Mèo", Category: model.CategoryPet},
	{ID: "2", Text: "Cái Quạt điện", Category: model.CategoryFurniture},
	{ID: "3", Text: "Con Chó cún", Category: model.CategoryPet},
	{ID: "4", Text: "Cái Bàn", Category: model.CategoryFurniture},
	{ID: "5", Text: "Cái Tủ lạnh", Category: model.CategoryFurniture},
	{ID: "6", Text: "Con Gà con", Category: model.CategoryPet},
	{ID: "7", Text: "Cái Giường ngủ", Category: model.CategoryFurniture},
	{ID: "8", Text: "Con Vẹt", Category: model.CategoryPet},
	{ID: "9", Text: "Cái Đèn học", Category: model.CategoryFurniture},
	{ID: "10", Text: "Con Cá vàng", Category: model.CategoryPet},
}

// FallbackItems returns a copy of the fixed 10-item list.
func FallbackItems() []model.Item {
	out := make([]model.Item, len(fallbackItems))
	copy(out, fallbackItems)
	return out
}
