package markdown

type PostType string

const (
	TypeArticle PostType = "article"
	TypeNote    PostType = "note"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// ParsedFile is one markdown file pulled out of an upload or archive,
// already split into front matter and body. Immutable once built.
type ParsedFile struct {
	Filename     string      `json:"filename"`
	Content      string      `json:"content"`
	FrontMatter  FrontMatter `json:"front_matter"`
	Body         string      `json:"body"`
	RelativePath string      `json:"relative_path"`
	FolderPath   string      `json:"folder_path"`
}

// ParsedPost is the candidate post derived from a ParsedFile. The slug
// is always non-empty by the time ProcessFile returns; Errors carries
// non-fatal normalization notes.
type ParsedPost struct {
	Title        string     `json:"title,omitempty"`
	Content      string     `json:"content"`
	Excerpt      string     `json:"excerpt,omitempty"`
	Slug         string     `json:"slug"`
	Type         PostType   `json:"type"`
	Status       PostStatus `json:"status"`
	Language     string     `json:"language,omitempty"`
	Tags         []string   `json:"tags"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at,omitempty"`
	OriginalPath string     `json:"original_path,omitempty"`
	Errors       []string   `json:"errors"`
}

// ImportSummary aggregates one processed batch.
type ImportSummary struct {
	TotalFiles int          `json:"total_files"`
	ValidPosts int          `json:"valid_posts"`
	Posts      []ParsedPost `json:"posts"`
	Conflicts  []string     `json:"conflicts"`
	Errors     []string     `json:"errors"`
}

// ExportPost is the post shape the export serializer works from: a
// stored post with its tag names resolved.
type ExportPost struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Slug      string   `json:"slug"`
	Type      PostType `json:"type"`
	Status    string   `json:"status"`
	Language  string   `json:"language,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}
