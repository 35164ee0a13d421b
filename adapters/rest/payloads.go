package rest

type SignUpIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProfileIn struct {
	Username string `json:"username"`
}

type CreateTaskIn struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"` // yyyy-mm-dd
	DueTime     string `json:"due_time,omitempty"` // HH:MM
}

type UpdateTaskIn struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	DueTime     string `json:"due_time,omitempty"`
}
