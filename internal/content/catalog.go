package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var ErrDuplicateKey = errors.New("duplicate catalog key")

type document struct {
	Articles []models.Article    `yaml:"articles" validate:"dive"`
	Reviews  []models.YearReview `yaml:"reviews" validate:"dive"`
}

// Catalog is an immutable, validated set of articles and yearly reviews.
type Catalog struct {
	articles []models.Article
	bySlug   map[string]int
	reviews  []models.YearReview
	byYear   map[int]int
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embeddedCatalog)
}

// Load parses and validates a YAML catalog. Unknown fields, invalid entries,
// duplicate slugs and duplicate review years are all rejected.
func Load(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := v.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	c := &Catalog{
		bySlug: make(map[string]int, len(doc.Articles)),
		byYear: make(map[int]int, len(doc.Reviews)),
	}

	var errs []error
	articles := slices.Clone(doc.Articles)
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Published != articles[j].Published {
			return articles[i].Published > articles[j].Published
		}
		return articles[i].Slug < articles[j].Slug
	})
	for i, a := range articles {
		if _, dup := c.bySlug[a.Slug]; dup {
			errs = append(errs, fmt.Errorf("%w: article slug %q", ErrDuplicateKey, a.Slug))
			continue
		}
		c.bySlug[a.Slug] = i
	}

	reviews := slices.Clone(doc.Reviews)
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Year > reviews[j].Year })
	for i, r := range reviews {
		if _, dup := c.byYear[r.Year]; dup {
			errs = append(errs, fmt.Errorf("%w: review year %d", ErrDuplicateKey, r.Year))
			continue
		}
		c.byYear[r.Year] = i
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.articles = articles
	c.reviews = reviews
	return c, nil
}

// Articles returns every article, newest first.
func (c *Catalog) Articles() []models.Article {
	return slices.Clone(c.articles)
}

func (c *Catalog) Featured() []models.Article {
	var out []models.Article
	for _, a := range c.articles {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Article(slug string) (models.Article, bool) {
	i, ok := c.bySlug[strings.ToLower(slug)]
	if !ok {
		return models.Article{}, false
	}
	return c.articles[i], true
}

// ArticlesForYear returns the articles that discuss the given enforcement year.
func (c *Catalog) ArticlesForYear(year int) []models.Article {
	var out []models.Article
	for _, a := range c.articles {
		if slices.Contains(a.RelatedYears, year) {
			out = append(out, a)
		}
	}
	return out
}

// Reviews returns every yearly review, most recent year first.
func (c *Catalog) Reviews() []models.YearReview {
	return slices.Clone(c.reviews)
}

func (c *Catalog) Review(year int) (models.YearReview, bool) {
	i, ok := c.byYear[year]
	if !ok {
		return models.YearReview{}, false
	}
	return c.reviews[i], true
}
