package users

type registerRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
	FullName string `json:"full_name" binding:"required,max=200"`
	Role     string `json:"role" binding:"max=64"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the user summary returned on login.
type LoginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginResponse is the login success body.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
}

func toLoginResponse(u User) LoginResponse {
	return LoginResponse{
		Success: true,
		User: LoginUser{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Role:     u.Role,
		},
	}
}
