package services

import (
	"errors"
	"time"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("comment belongs to another user")
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Create(postID uuid.UUID, user *models.User, content string) (*dto.CommentView, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{
		PostID:    post.ID,
		Content:   content,
		UserID:    user.ID,
		UserLogin: user.Login,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.buildView(&comment, &user.ID)
}

func (s *CommentService) Get(id uuid.UUID, viewerID *uuid.UUID) (*dto.CommentView, error) {
	comment, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(comment, viewerID)
}

func (s *CommentService) ListByPost(postID uuid.UUID, q dto.PageQuery, viewerID *uuid.UUID) (dto.Page[dto.CommentView], error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return dto.Page[dto.CommentView]{}, ErrPostNotFound
	}

	var comments []models.Comment
	var total int64

	query := s.db.Model(&models.Comment{}).Where("post_id = ?", postID)
	if err := query.Count(&total).Error; err != nil {
		return dto.Page[dto.CommentView]{}, err
	}

	err := query.
		Order(orderClause(q, map[string]string{"createdAt": "created_at"})).
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&comments).Error
	if err != nil {
		return dto.Page[dto.CommentView]{}, err
	}

	views := make([]dto.CommentView, 0, len(comments))
	for i := range comments {
		view, err := s.buildView(&comments[i], viewerID)
		if err != nil {
			return dto.Page[dto.CommentView]{}, err
		}
		views = append(views, *view)
	}
	return dto.NewPage(views, q.PageNumber, q.PageSize, total), nil
}

func (s *CommentService) Update(id, userID uuid.UUID, content string) error {
	comment, err := s.find(id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}
	return s.db.Model(comment).Update("content", content).Error
}

func (s *CommentService) Delete(id, userID uuid.UUID) error {
	comment, err := s.find(id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}
	return s.db.Delete(comment).Error
}

func (s *CommentService) SetLikeStatus(commentID uuid.UUID, userID uuid.UUID, status models.LikeStatus) error {
	comment, err := s.find(commentID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var like models.CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", comment.ID, userID).First(&like).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if status == models.LikeStatusNone {
				return nil
			}
			like = models.CommentLike{
				CommentID: comment.ID,
				UserID:    userID,
				Status:    status,
				CreatedAt: time.Now().UTC(),
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
			if err := tx.Model(&like).Update("status", status).Error; err != nil {
				return err
			}
		}

		return refreshCommentCounters(tx, comment.ID)
	})
}

func (s *CommentService) find(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) buildView(comment *models.Comment, viewerID *uuid.UUID) (*dto.CommentView, error) {
	myStatus := models.LikeStatusNone
	if viewerID != nil {
		var like models.CommentLike
		err := s.db.Where("comment_id = ? AND user_id = ?", comment.ID, *viewerID).First(&like).Error
		if err == nil {
			myStatus = like.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return &dto.CommentView{
		ID:      comment.ID.String(),
		Content: comment.Content,
		CommentatorInfo: dto.CommentatorInfo{
			UserID:    comment.UserID.String(),
			UserLogin: comment.UserLogin,
		},
		CreatedAt: comment.CreatedAt,
		LikesInfo: dto.LikesInfo{
			LikesCount:    comment.LikesCount,
			DislikesCount: comment.DislikesCount,
			MyStatus:      string(myStatus),
		},
	}, nil
}

func refreshCommentCounters(tx *gorm.DB, commentID uuid.UUID) error {
	var likes, dislikes int64
	if err := tx.Model(&models.CommentLike{}).
		Where("comment_id = ? AND status = ?", commentID, models.LikeStatusLike).
		Count(&likes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.CommentLike{}).
		Where("comment_id = ? AND status = ?", commentID, models.LikeStatusDislike).
		Count(&dislikes).Error; err != nil {
		return err
	}
	return tx.Model(&models.Comment{}).Where("id = ?", commentID).Updates(map[string]interface{}{
		"likes_count":    likes,
		"dislikes_count": dislikes,
	}).Error
}
