package content

import (
	"cmp"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/ydbwellness/ydb/docstore"
)

// DefaultBlogImage is used when a post is created without an image.
const DefaultBlogImage = "https://images.pexels.com/photos/3768911/pexels-photo-3768911.jpeg?auto=compress&cs=tinysrgb&w=800&h=400&fit=crop"

var (
	BlogCategories  = []string{"PCOS", "Perimenopause", "Wellness", "Nutrition", "Lifestyle", "Mental Health", "Ayurveda"}
	PaperCategories = []string{"PCOS Research", "Perimenopause Studies", "Ayurvedic Integration", "Clinical Trials"}
	PaperStatuses   = []string{"Draft", "In Review", "Published"}
	AreaIcons       = []string{"Microscope", "FlaskConical", "Award", "Users"}
	AreaColors      = []string{"purple", "blue", "green", "red"}
)

// BlogPost is an article shown on /blog.
type BlogPost struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt"`
	Author    string   `json:"author"`
	AuthorID  string   `json:"authorId"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	ImageURL  string   `json:"imageUrl"`
	Published bool     `json:"published"`
	Timestamps
}

func (p BlogPost) Key() string { return p.ID }

func (p BlogPost) Fields() docstore.Fields {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return docstore.Fields{
		"title":     p.Title,
		"content":   p.Content,
		"excerpt":   p.Excerpt,
		"author":    p.Author,
		"authorId":  p.AuthorID,
		"category":  p.Category,
		"tags":      tags,
		"imageUrl":  p.ImageURL,
		"published": p.Published,
	}
}

func (p BlogPost) Validate() error {
	return errors.Join(
		required("title", p.Title),
		required("content", p.Content),
		oneOf("category", p.Category, BlogCategories),
	)
}

// Paragraphs splits content on newlines, dropping blank lines.
func (p BlogPost) Paragraphs() []string {
	var out []string
	for _, line := range strings.Split(p.Content, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseTags splits a comma separated tag list, trimming and dropping empties.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// PublishedOnly filters posts down to published ones, keeping order.
func PublishedOnly(posts []BlogPost) []BlogPost {
	var out []BlogPost
	for _, p := range posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

// Paper is a research paper. Year is kept as text; sorting parses it.
type Paper struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Journal      string `json:"journal"`
	Year         string `json:"year"`
	Participants int    `json:"participants"`
	Duration     string `json:"duration"`
	KeyFinding   string `json:"keyFinding"`
	Status       string `json:"status"`
	DownloadURL  string `json:"downloadUrl"`
	Abstract     string `json:"abstract"`
	Authors      string `json:"authors"`
	Category     string `json:"category"`
	Timestamps
}

var yearRe = regexp.MustCompile(`^\d{4}$`)

func (p Paper) Key() string { return p.ID }

func (p Paper) Fields() docstore.Fields {
	return docstore.Fields{
		"title":        p.Title,
		"journal":      p.Journal,
		"year":         p.Year,
		"participants": p.Participants,
		"duration":     p.Duration,
		"keyFinding":   p.KeyFinding,
		"status":       p.Status,
		"downloadUrl":  p.DownloadURL,
		"abstract":     p.Abstract,
		"authors":      p.Authors,
		"category":     p.Category,
	}
}

func (p Paper) Validate() error {
	var errs []error
	errs = append(errs, required("title", p.Title), required("journal", p.Journal))
	if !yearRe.MatchString(p.Year) {
		errs = append(errs, invalid("year", "must be a four digit year"))
	}
	if p.Participants < 0 {
		errs = append(errs, invalid("participants", "must not be negative"))
	}
	errs = append(errs, oneOf("status", p.Status, PaperStatuses))
	if p.Category != "" {
		errs = append(errs, oneOf("category", p.Category, PaperCategories))
	}
	return errors.Join(errs...)
}

// YearValue is the numeric year, 0 when unparsable.
func (p Paper) YearValue() int {
	y, _ := strconv.Atoi(strings.TrimSpace(p.Year))
	return y
}

// ComparePapers orders by year descending, then newest first, then id.
func ComparePapers(a, b Paper) int {
	if c := cmp.Compare(b.YearValue(), a.YearValue()); c != 0 {
		return c
	}
	if c := newerFirst(a.Timestamps, b.Timestamps); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Area is a research focus shown on the science page.
type Area struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Studies      int    `json:"studies"`
	Participants int    `json:"participants"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	Timestamps
}

func (a Area) Key() string { return a.ID }

func (a Area) Fields() docstore.Fields {
	return docstore.Fields{
		"title":        a.Title,
		"description":  a.Description,
		"studies":      a.Studies,
		"participants": a.Participants,
		"icon":         a.Icon,
		"color":        a.Color,
	}
}

func (a Area) Validate() error {
	var errs []error
	errs = append(errs,
		required("title", a.Title),
		required("description", a.Description),
		oneOf("icon", a.Icon, AreaIcons),
		oneOf("color", a.Color, AreaColors),
	)
	if a.Studies < 0 {
		errs = append(errs, invalid("studies", "must not be negative"))
	}
	if a.Participants < 0 {
		errs = append(errs, invalid("participants", "must not be negative"))
	}
	return errors.Join(errs...)
}

// Member is a team member profile.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Credentials string `json:"credentials"`
	Image       string `json:"image"`
	Bio         string `json:"bio"`
	Timestamps
}

func (m Member) Key() string { return m.ID }

func (m Member) Fields() docstore.Fields {
	return docstore.Fields{
		"name":        m.Name,
		"role":        m.Role,
		"credentials": m.Credentials,
		"image":       m.Image,
		"bio":         m.Bio,
	}
}

func (m Member) Validate() error {
	return errors.Join(required("name", m.Name), required("role", m.Role))
}

// Kinds for each collection.
var (
	BlogKind = Kind[BlogPost]{
		Collection:  Blogs,
		Singular:    "Blog",
		CreatedVerb: "created",
		Order:       []docstore.Order{{Field: "createdAt", Desc: true}},
	}
	PaperKind = Kind[Paper]{
		Collection:  ResearchPaper,
		Singular:    "Research paper",
		CreatedVerb: "added",
		Compare:     ComparePapers,
	}
	AreaKind = Kind[Area]{
		Collection:  ResearchArea,
		Singular:    "Research area",
		CreatedVerb: "added",
	}
	MemberKind = Kind[Member]{
		Collection:  TeamMembers,
		Singular:    "Team member",
		CreatedVerb: "added",
	}
)
