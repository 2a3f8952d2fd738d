package dto

type LoginRequest struct {
	LoginOrEmail string `json:"loginOrEmail"`
	Password     string `json:"password"`
}

// LoginResponse carries the access token only; the refresh token travels in
// the httpOnly cookie.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type RegistrationRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConfirmationRequest struct {
	Code string `json:"code"`
}

type EmailResendingRequest struct {
	Email string `json:"email"`
}

type PasswordRecoveryRequest struct {
	Email string `json:"email"`
}

type NewPasswordRequest struct {
	NewPassword  string `json:"newPassword"`
	RecoveryCode string `json:"recoveryCode"`
}

type MeResponse struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}
