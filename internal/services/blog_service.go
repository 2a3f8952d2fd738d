package services

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogService struct {
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

func (s *BlogService) List(q dto.PageQuery, searchNameTerm string) ([]models.Blog, int64, error) {
	var blogs []models.Blog
	var total int64

	query := s.db.Model(&models.Blog{})
	if searchNameTerm != "" {
		query = query.Where("name ILIKE ?", "%"+searchNameTerm+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(orderClause(q, map[string]string{"name": "name", "createdAt": "created_at"})).
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (s *BlogService) Create(req dto.CreateBlogRequest) (*models.Blog, error) {
	blog := models.Blog{
		Name:        req.Name,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
	}
	if err := s.db.Create(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (s *BlogService) Get(id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	if err := s.db.First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (s *BlogService) Update(id uuid.UUID, req dto.UpdateBlogRequest) error {
	blog, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Model(blog).Updates(map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"website_url": req.WebsiteURL,
	}).Error
}

func (s *BlogService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.Blog{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// orderClause maps an API sortBy value onto a whitelisted column. Unknown
// fields fall back to created_at so user input never reaches the ORDER BY
// verbatim.
func orderClause(q dto.PageQuery, allowed map[string]string) string {
	col, ok := allowed[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.SortDirection == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}
