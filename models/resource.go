package models

// Resource is a support link (crisis lines, apps, communities) shown to the user.
type Resource struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:200;not null" json:"title"`
	URL   string `gorm:"size:500;not null" json:"url"`
	Type  string `gorm:"size:24" json:"type"`
	Tags  string `gorm:"size:200" json:"tags"`
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{&CheckIn{}, &Meal{}, &Resource{}}
}
