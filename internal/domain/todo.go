package domain

// Todo is a single todo item. Field order is the JSON wire order.
type Todo struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string `gorm:"type:text;not null" json:"description"`
	Done        bool   `gorm:"not null" json:"done"`
}

// TableName pins the table name shared by every storage backend.
func (Todo) TableName() string {
	return "todos"
}
