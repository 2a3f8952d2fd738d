package services

import (
	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService backs the admin user-management endpoints. Users created here
// skip email confirmation: the admin vouches for them.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(q dto.PageQuery, searchLoginTerm, searchEmailTerm string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	switch {
	case searchLoginTerm != "" && searchEmailTerm != "":
		query = query.Where("login ILIKE ? OR email ILIKE ?",
			"%"+searchLoginTerm+"%", "%"+searchEmailTerm+"%")
	case searchLoginTerm != "":
		query = query.Where("login ILIKE ?", "%"+searchLoginTerm+"%")
	case searchEmailTerm != "":
		query = query.Where("email ILIKE ?", "%"+searchEmailTerm+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(orderClause(q, map[string]string{
			"login":     "login",
			"email":     "email",
			"createdAt": "created_at",
		})).
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Create(login, email, password string) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("login = ?", login).First(&existing).Error; err == nil {
		return nil, ErrLoginTaken
	}
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Login:        login,
		Email:        email,
		PasswordHash: string(hash),
		IsConfirmed:  true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
