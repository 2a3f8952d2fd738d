package services

import (
	"errors"
	"time"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) List(q dto.PageQuery, blogID *uuid.UUID, viewerID *uuid.UUID) (dto.Page[dto.PostView], error) {
	var posts []models.Post
	var total int64

	query := s.db.Model(&models.Post{})
	if blogID != nil {
		query = query.Where("blog_id = ?", *blogID)
	}

	if err := query.Count(&total).Error; err != nil {
		return dto.Page[dto.PostView]{}, err
	}

	err := query.
		Order(orderClause(q, map[string]string{
			"title":     "title",
			"blogName":  "blog_name",
			"createdAt": "created_at",
		})).
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&posts).Error
	if err != nil {
		return dto.Page[dto.PostView]{}, err
	}

	views := make([]dto.PostView, 0, len(posts))
	for i := range posts {
		view, err := s.buildView(&posts[i], viewerID)
		if err != nil {
			return dto.Page[dto.PostView]{}, err
		}
		views = append(views, *view)
	}
	return dto.NewPage(views, q.PageNumber, q.PageSize, total), nil
}

func (s *PostService) Create(req dto.CreatePostRequest) (*dto.PostView, error) {
	blogID, err := uuid.Parse(req.BlogID)
	if err != nil {
		return nil, ErrBlogNotFound
	}

	var blog models.Blog
	if err := s.db.First(&blog, "id = ?", blogID).Error; err != nil {
		return nil, ErrBlogNotFound
	}

	post := models.Post{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		BlogID:           blog.ID,
		BlogName:         blog.Name,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return s.buildView(&post, nil)
}

func (s *PostService) Get(id uuid.UUID, viewerID *uuid.UUID) (*dto.PostView, error) {
	post, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(post, viewerID)
}

func (s *PostService) Update(id uuid.UUID, req dto.UpdatePostRequest) error {
	post, err := s.find(id)
	if err != nil {
		return err
	}

	blogID, err := uuid.Parse(req.BlogID)
	if err != nil {
		return ErrBlogNotFound
	}
	var blog models.Blog
	if err := s.db.First(&blog, "id = ?", blogID).Error; err != nil {
		return ErrBlogNotFound
	}

	return s.db.Model(post).Updates(map[string]interface{}{
		"title":             req.Title,
		"short_description": req.ShortDescription,
		"content":           req.Content,
		"blog_id":           blog.ID,
		"blog_name":         blog.Name,
	}).Error
}

func (s *PostService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// SetLikeStatus upserts the user's reaction and recomputes the cached
// counters in the same transaction, so counts never drift from the rows.
func (s *PostService) SetLikeStatus(postID uuid.UUID, user *models.User, status models.LikeStatus) error {
	post, err := s.find(postID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var like models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&like).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if status == models.LikeStatusNone {
				return nil
			}
			like = models.PostLike{
				PostID:    post.ID,
				UserID:    user.ID,
				UserLogin: user.Login,
				Status:    status,
				AddedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case status == models.LikeStatusNone:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&like).Updates(map[string]interface{}{
				"status":   status,
				"added_at": time.Now().UTC(),
			}).Error; err != nil {
				return err
			}
		}

		return refreshPostCounters(tx, post.ID)
	})
}

func (s *PostService) find(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) buildView(post *models.Post, viewerID *uuid.UUID) (*dto.PostView, error) {
	myStatus := models.LikeStatusNone
	if viewerID != nil {
		var like models.PostLike
		err := s.db.Where("post_id = ? AND user_id = ?", post.ID, *viewerID).First(&like).Error
		if err == nil {
			myStatus = like.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var newest []models.PostLike
	err := s.db.Where("post_id = ? AND status = ?", post.ID, models.LikeStatusLike).
		Order("added_at DESC").
		Limit(3).
		Find(&newest).Error
	if err != nil {
		return nil, err
	}

	newestLikes := make([]dto.LikeDetails, 0, len(newest))
	for _, l := range newest {
		newestLikes = append(newestLikes, dto.LikeDetails{
			AddedAt: l.AddedAt,
			UserID:  l.UserID.String(),
			Login:   l.UserLogin,
		})
	}

	return &dto.PostView{
		ID:               post.ID.String(),
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
		BlogID:           post.BlogID.String(),
		BlogName:         post.BlogName,
		CreatedAt:        post.CreatedAt,
		ExtendedLikesInfo: dto.ExtendedLikesInfo{
			LikesCount:    post.LikesCount,
			DislikesCount: post.DislikesCount,
			MyStatus:      string(myStatus),
			NewestLikes:   newestLikes,
		},
	}, nil
}

func refreshPostCounters(tx *gorm.DB, postID uuid.UUID) error {
	var likes, dislikes int64
	if err := tx.Model(&models.PostLike{}).
		Where("post_id = ? AND status = ?", postID, models.LikeStatusLike).
		Count(&likes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.PostLike{}).
		Where("post_id = ? AND status = ?", postID, models.LikeStatusDislike).
		Count(&dislikes).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"likes_count":    likes,
		"dislikes_count": dislikes,
	}).Error
}
