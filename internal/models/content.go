package models

type Article struct {
	Slug         string   `yaml:"slug" json:"slug" validate:"required,slug"`
	Title        string   `yaml:"title" json:"title" validate:"required"`
	Excerpt      string   `yaml:"excerpt" json:"excerpt" validate:"required"`
	Category     string   `yaml:"category" json:"category" validate:"required"`
	Author       string   `yaml:"author" json:"author" validate:"required"`
	Published    string   `yaml:"published" json:"published" validate:"required,datetime=2006-01-02"`
	ReadTime     int      `yaml:"readTime" json:"readTime" validate:"gte=1"`
	Featured     bool     `yaml:"featured" json:"featured"`
	Keywords     []string `yaml:"keywords" json:"keywords" validate:"dive,required"`
	RelatedYears []int    `yaml:"relatedYears" json:"relatedYears,omitempty" validate:"dive,gte=2000,lte=2100"`
	Body         string   `yaml:"body" json:"body" validate:"required"`
}

type LargestFine struct {
	Firm   string  `yaml:"firm" json:"firm" validate:"required"`
	Amount float64 `yaml:"amount" json:"amount" validate:"gte=0"`
}

type YearReview struct {
	Year        int         `yaml:"year" json:"year" validate:"gte=2000,lte=2100"`
	Title       string      `yaml:"title" json:"title" validate:"required"`
	Summary     string      `yaml:"summary" json:"summary" validate:"required"`
	TotalFines  int         `yaml:"totalFines" json:"totalFines" validate:"gte=0"`
	TotalAmount float64     `yaml:"totalAmount" json:"totalAmount" validate:"gte=0"`
	LargestFine LargestFine `yaml:"largestFine" json:"largestFine"`
	TopBreaches []string    `yaml:"topBreaches" json:"topBreaches" validate:"dive,required"`
	Highlights  []string    `yaml:"highlights" json:"highlights" validate:"dive,required"`
}
