package handlers

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BlogHandler struct {
	blogs  *services.BlogService
	posts  *services.PostService
	tokens *services.TokenService
}

func NewBlogHandler(blogs *services.BlogService, posts *services.PostService, tokens *services.TokenService) *BlogHandler {
	return &BlogHandler{blogs: blogs, posts: posts, tokens: tokens}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	q := pageQuery(c)
	blogs, total, err := h.blogs.List(q, c.Query("searchNameTerm"))
	if err != nil {
		return serverError(c, "list_blogs", err)
	}
	return c.JSON(dto.NewPage(blogs, q.PageNumber, q.PageSize, total))
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if req.Name == "" || len(req.Name) > 15 {
		return badRequest(c, "name must be 1-15 characters", "name")
	}
	if req.WebsiteURL == "" || len(req.WebsiteURL) > 100 {
		return badRequest(c, "websiteUrl must be 1-100 characters", "websiteUrl")
	}

	blog, err := h.blogs.Create(req)
	if err != nil {
		return serverError(c, "create_blog", err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
	}

	blog, err := h.blogs.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
		}
		return serverError(c, "get_blog", err)
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
	}

	var req dto.UpdateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	if err := h.blogs.Update(id, req); err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
		}
		return serverError(c, "update_blog", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
	}

	if err := h.blogs.Delete(id); err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "id"))
		}
		return serverError(c, "delete_blog", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	blogID, err := uuid.Parse(c.Params("blogId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "blogId"))
	}
	if _, err := h.blogs.Get(blogID); err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "blogId"))
		}
		return serverError(c, "list_blog_posts", err)
	}

	q := pageQuery(c)
	page, err := h.posts.List(q, &blogID, viewerID(c, h.tokens))
	if err != nil {
		return serverError(c, "list_blog_posts", err)
	}
	return c.JSON(page)
}

func (h *BlogHandler) CreatePost(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	req.BlogID = c.Params("blogId")

	post, err := h.posts.Create(req)
	if err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Blog not found", "blogId"))
		}
		return serverError(c, "create_blog_post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
