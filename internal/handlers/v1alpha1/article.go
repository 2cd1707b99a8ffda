package v1alpha1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/handlers/validator"
	"github.com/contentforge/article-engine/internal/service"
	"github.com/contentforge/article-engine/internal/service/mappers"
)

type ArticleHandler struct {
	articleSrv *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleSrv: articleService}
}

// RegisterApi mounts the article routes on the router.
func (h *ArticleHandler) RegisterApi(router chi.Router) {
	router.Post("/api/v1/articles", h.CreateArticle)
	router.Get("/api/v1/articles", h.ListArticles)
	router.Get("/api/v1/articles/{id}", h.GetArticle)
	router.Post("/api/v1/articles/{id}/run", h.RunArticle)
}

// (POST /api/v1/articles)
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var input api.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewArticleValidationRules()...)
	if err := v.Struct(input); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	form := mappers.ArticleCreateForm{
		Topic:           input.Topic,
		TargetWordCount: input.TargetWordCount,
		Language:        input.Language,
	}

	job, err := h.articleSrv.CreateArticle(r.Context(), form)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to process article job")
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, JobReply{Job: mappers.JobToApi(job)})
}

// (GET /api/v1/articles)
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.articleSrv.ListArticles(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to list article jobs")
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /api/v1/articles/{id})
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.articleSrv.GetArticle(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, "failed to load article job")
		}
		return
	}

	_ = render.Render(w, r, JobReply{Job: mappers.JobToApi(job)})
}

// (POST /api/v1/articles/{id}/run)
func (h *ArticleHandler) RunArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.articleSrv.RunArticle(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			renderError(w, r, http.StatusInternalServerError, "failed to run article job")
		}
		return
	}

	_ = render.Render(w, r, JobReply{Job: mappers.JobToApi(job)})
}

type JobReply struct {
	api.Job
}

func (j JobReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ErrorReply struct {
	Message string `json:"message"`
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	_ = render.Render(w, r, ErrorReply{Message: message})
}
