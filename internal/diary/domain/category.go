package domain

// Categories is the fixed catalog offered by the create form. There is no
// category management anywhere in the app; these four values are the whole
// taxonomy.
var Categories = []Category{
	{ID: "cat1", Name: "家族の時間", Color: "#10b981"},
	{ID: "cat2", Name: "成長記録", Color: "#f59e0b"},
	{ID: "cat3", Name: "記念日", Color: "#ef4444"},
	{ID: "cat4", Name: "旅行", Color: "#8b5cf6"},
}

// CategoryByID resolves an id against the catalog. Unknown or empty ids
// resolve to nil, which an entry carries as "no category".
func CategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			c := Categories[i]
			return &c
		}
	}
	return nil
}
