package domain

// Role роль пользователя
type Role string

const (
	RoleStudent      Role = "student"
	RolePsychologist Role = "psychologist"
	RoleAdmin        Role = "admin"
)

// ParseRole конвертирует строку в роль
func ParseRole(s string) (Role, error) {
	role := Role(s)
	switch role {
	case RoleStudent, RolePsychologist, RoleAdmin:
		return role, nil
	}
	return "", ErrUnknownRole
}

// User пользователь системы
type User struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

// Caller тот, кто выполняет операцию. Передается явно в каждую операцию ядра.
type Caller struct {
	UserID int64
	Role   Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsStudent() bool {
	return c.Role == RoleStudent
}

// IsPsychologist проверяет, что вызывающий является указанным психологом
func (c Caller) IsPsychologist(psychologistID int64) bool {
	return c.Role == RolePsychologist && c.UserID == psychologistID
}

// CanManageCalendar владелец расписания или администратор
func (c Caller) CanManageCalendar(psychologistID int64) bool {
	return c.IsAdmin() || c.IsPsychologist(psychologistID)
}
