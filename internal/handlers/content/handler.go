package content

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

type catalog interface {
	Articles() []models.Article
	Featured() []models.Article
	Article(slug string) (models.Article, bool)
	ArticlesForYear(year int) []models.Article
	Reviews() []models.YearReview
	Review(year int) (models.YearReview, bool)
}

type rejectionRecorder interface {
	RecordBusinessError(errorType string)
}

type Handler struct {
	Catalog  catalog
	recorder rejectionRecorder
}

func NewHandler(c catalog, r rejectionRecorder) *Handler {
	return &Handler{Catalog: c, recorder: r}
}

// ListArticles
// @Summary List blog articles
// @Tags content
// @Produce json
// @Param featured query bool false "Only featured articles"
// @Param year query int false "Articles discussing this enforcement year"
// @Success 200 {array} models.Article
// @Failure 400
// @Router /articles [get]
func (h *Handler) ListArticles(c *gin.Context) {
	var articles []models.Article

	switch {
	case c.Query("year") != "":
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			h.badYear(c)
			return
		}
		articles = h.Catalog.ArticlesForYear(year)
	case c.Query("featured") == "true":
		articles = h.Catalog.Featured()
	default:
		articles = h.Catalog.Articles()
	}

	if articles == nil {
		articles = []models.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticle
// @Summary Get a blog article by slug
// @Tags content
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} models.Article
// @Failure 404
// @Router /articles/{slug} [get]
func (h *Handler) GetArticle(c *gin.Context) {
	article, ok := h.Catalog.Article(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListReviews
// @Summary List yearly enforcement reviews
// @Tags content
// @Produce json
// @Success 200 {array} models.YearReview
// @Router /reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	reviews := h.Catalog.Reviews()
	if reviews == nil {
		reviews = []models.YearReview{}
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReview
// @Summary Get the enforcement review for a year
// @Tags content
// @Produce json
// @Param year path int true "Year"
// @Success 200 {object} models.YearReview
// @Failure 400
// @Failure 404
// @Router /reviews/{year} [get]
func (h *Handler) GetReview(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.badYear(c)
		return
	}

	review, ok := h.Catalog.Review(year)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) badYear(c *gin.Context) {
	h.recorder.RecordBusinessError("invalid_year")
	c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
}
