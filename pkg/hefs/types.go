package hefs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	// ProjectStatusOngoing marks a project still accepting submissions.
	ProjectStatusOngoing ProjectStatus = "ongoing"

	// ProjectStatusPast marks a finished project.
	ProjectStatusPast ProjectStatus = "past"
)

// SubmissionType is the kind of content a submission or media item carries.
type SubmissionType string

const (
	SubmissionTypeImage SubmissionType = "image"
	SubmissionTypeVideo SubmissionType = "video"
	SubmissionTypeText  SubmissionType = "text"
)

// FlexibleID is an identifier the API serves either as a JSON string or a
// JSON number. It is always held as a string.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return fmt.Errorf("parsing identifier: %w", err)
		}

		*id = FlexibleID(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("parsing numeric identifier: %w", err)
	}

	*id = FlexibleID(n.String())

	return nil
}

// MarshalJSON implements json.Marshaler. Integer identifiers are written as
// JSON numbers, matching how the API serves them.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}

	data, err := json.Marshal(string(id))
	if err != nil {
		return nil, fmt.Errorf("encoding identifier: %w", err)
	}

	return data, nil
}

// String returns the identifier as a string.
func (id FlexibleID) String() string {
	return string(id)
}

// GuildConfig is the wire shape of a guild. Empty fields are left out of
// request bodies, so an edit only sends the fields that are set.
type GuildConfig struct {
	ID          string     `json:"_id,omitempty"         yaml:"_id,omitempty"`
	Name        string     `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string     `json:"image,omitempty"       yaml:"image,omitempty"`
	Invite      string     `json:"invite,omitempty"      yaml:"invite,omitempty"`
	DebutDate   *time.Time `json:"debutDate,omitempty"   yaml:"debutDate,omitempty"`
	Color       string     `json:"color,omitempty"       yaml:"color,omitempty"`
}

// Guild is a community that owns projects.
type Guild struct {
	ID          string
	Name        string
	Description string
	Image       string
	// Invite is the full invite URL built from the invite template.
	Invite string
	Debut  time.Time
	Color  string

	// Projects is set when the guild is built and filled as projects are
	// cached.
	Projects GuildProjectsClient

	client Client
}

// NewGuild builds a guild bound to client from its wire shape.
func NewGuild(config GuildConfig, client Client) *Guild {
	guild := &Guild{client: client}
	guild.Apply(config)

	return guild
}

// Apply overwrites every tracked field from config.
func (g *Guild) Apply(config GuildConfig) {
	g.ID = config.ID
	g.Name = config.Name
	g.Description = config.Description
	g.Image = config.Image
	g.Invite = inviteURL(g.client, config.Invite)
	g.Debut = time.Time{}

	if config.DebutDate != nil {
		g.Debut = *config.DebutDate
	}

	g.Color = config.Color
}

func inviteURL(client Client, code string) string {
	template := DefaultEndpoints().Invite
	if client != nil {
		template = client.Endpoints().Invite
	}

	return FormatEndpoint(template, code)
}

// EntityID implements Entity.
func (g *Guild) EntityID() string {
	return g.ID
}

// Ref returns a resolvable pointing at this guild.
func (g *Guild) Ref() Resolvable[*Guild] {
	return Ref(g)
}

// Edit patches the guild and overwrites it in place.
func (g *Guild) Edit(ctx context.Context, config *GuildConfig) (*Guild, error) {
	return g.client.Guilds().Edit(ctx, g, config)
}

// Delete removes the guild on the server and from the cache.
func (g *Guild) Delete(ctx context.Context) error {
	return g.client.Guilds().Delete(ctx, g)
}

// String returns the guild name.
func (g *Guild) String() string {
	return g.Name
}

// MediaConfig is the wire shape of a media item.
type MediaConfig struct {
	ID      string         `json:"_id,omitempty"     yaml:"_id,omitempty"`
	Type    SubmissionType `json:"type"              yaml:"type"`
	Src     string         `json:"src,omitempty"     yaml:"src,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// Media is embedded in a project and has no identity of its own.
type Media struct {
	ID      string
	Type    SubmissionType
	Src     string
	Message string
}

// NewMedia builds a media item from its wire shape.
func NewMedia(config MediaConfig) *Media {
	return &Media{
		ID:      config.ID,
		Type:    config.Type,
		Src:     config.Src,
		Message: config.Message,
	}
}

// String returns the source, else the message, else the type.
func (m *Media) String() string {
	return firstNonEmpty(m.Src, m.Message, string(m.Type))
}

// LinkConfig is the wire shape of a project link.
type LinkConfig struct {
	ID   string `json:"_id,omitempty" yaml:"_id,omitempty"`
	Name string `json:"name"          yaml:"name"`
	Link string `json:"link"          yaml:"link"`
}

// Link is embedded in a project and has no identity of its own.
type Link struct {
	ID   string
	Name string
	Link string
}

// NewLink builds a link from its wire shape.
func NewLink(config LinkConfig) *Link {
	return &Link{
		ID:   config.ID,
		Name: config.Name,
		Link: config.Link,
	}
}

// String returns the link URL.
func (l *Link) String() string {
	return l.Link
}

// ProjectConfig is the wire shape of a project. Like GuildConfig, empty
// fields are omitted from request bodies.
type ProjectConfig struct {
	ID               FlexibleID    `json:"_id,omitempty"              yaml:"_id,omitempty"`
	Status           ProjectStatus `json:"status,omitempty"           yaml:"status,omitempty"`
	Guild            string        `json:"guild,omitempty"            yaml:"guild,omitempty"`
	Media            []MediaConfig `json:"media,omitempty"            yaml:"media,omitempty"`
	Title            string        `json:"title,omitempty"            yaml:"title,omitempty"`
	ShortDescription string        `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	Description      string        `json:"description,omitempty"      yaml:"description,omitempty"`
	Links            []LinkConfig  `json:"links,omitempty"            yaml:"links,omitempty"`
	Date             *time.Time    `json:"date,omitempty"             yaml:"date,omitempty"`
	Flags            []string      `json:"flags,omitempty"            yaml:"flags,omitempty"`
	OGImage          string        `json:"ogImage,omitempty"          yaml:"ogImage,omitempty"`
}


// Project belongs to one guild and owns submissions.
type Project struct {
	ID     string
	URL    string
	Status ProjectStatus
	// GuildID is the raw guild identifier from the payload.
	GuildID          string
	Guild            *Guild
	Media            []*Media
	Title            string
	ShortDescription string
	Description      string
	Links            []*Link
	Date             time.Time
	Flags            []string
	OGImage          string

	// Submissions is set when the project is built and filled when its
	// submissions are fetched.
	Submissions ProjectSubmissionsClient

	client Client
}

// NewProject builds a project bound to client from its wire shape.
func NewProject(config ProjectConfig, client Client) *Project {
	project := &Project{client: client}
	project.Apply(config)

	return project
}

// Apply overwrites every tracked field from config and re-resolves the guild.
func (p *Project) Apply(config ProjectConfig) {
	p.ID = config.ID.String()
	p.Status = config.Status
	p.GuildID = config.Guild
	p.Guild = nil
	p.Media = make([]*Media, 0, len(config.Media))
	p.Links = make([]*Link, 0, len(config.Links))
	p.Title = config.Title
	p.ShortDescription = config.ShortDescription
	p.Description = config.Description
	p.Date = time.Time{}
	p.Flags = config.Flags
	p.OGImage = config.OGImage

	if p.client != nil {
		p.URL = p.client.BaseURL() + "/projects/" + p.ID
		p.Guild = p.client.Guilds().Resolve(GuildID(config.Guild))
	}

	for _, m := range config.Media {
		p.Media = append(p.Media, NewMedia(m))
	}

	for _, l := range config.Links {
		p.Links = append(p.Links, NewLink(l))
	}

	if config.Date != nil {
		p.Date = *config.Date
	}
}

// EntityID implements Entity.
func (p *Project) EntityID() string {
	return p.ID
}

// Ref returns a resolvable pointing at this project.
func (p *Project) Ref() Resolvable[*Project] {
	return Ref(p)
}

// Edit patches the project and overwrites it in place.
func (p *Project) Edit(ctx context.Context, config *ProjectConfig) (*Project, error) {
	return p.client.Projects().Edit(ctx, p, config)
}

// Delete removes the project on the server and from the caches.
func (p *Project) Delete(ctx context.Context) error {
	return p.client.Projects().Delete(ctx, p)
}

// FetchSubmissions lists this project's submissions from the API.
func (p *Project) FetchSubmissions(ctx context.Context, opts ...FetchOption) ([]*Submission, error) {
	return p.client.Projects().FetchSubmissions(ctx, p.Ref(), opts...)
}

// String returns the project URL.
func (p *Project) String() string {
	return p.URL
}

// SubmissionConfig is the wire shape of a submission.
type SubmissionConfig struct {
	ID      string         `json:"_id,omitempty"     yaml:"_id,omitempty"`
	Project FlexibleID     `json:"project,omitempty" yaml:"project,omitempty"`
	Author  string         `json:"author,omitempty"  yaml:"author,omitempty"`
	SrcIcon string         `json:"srcIcon,omitempty" yaml:"srcIcon,omitempty"`
	Type    SubmissionType `json:"type,omitempty"    yaml:"type,omitempty"`
	Src     string         `json:"src,omitempty"     yaml:"src,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}


// Submission is one contribution to a project.
type Submission struct {
	ID string
	// ProjectID is the raw project identifier from the payload.
	ProjectID string
	Project   *Project
	Author    string
	SrcIcon   string
	Src       string
	Type      SubmissionType
	Message   string

	client Client
}

// NewSubmission builds a submission bound to client from its wire shape.
func NewSubmission(config SubmissionConfig, client Client) *Submission {
	submission := &Submission{client: client}
	submission.Apply(config)

	return submission
}

// Apply overwrites every tracked field from config and re-resolves the project.
func (s *Submission) Apply(config SubmissionConfig) {
	s.ID = config.ID
	s.ProjectID = config.Project.String()
	s.Project = nil
	s.Author = config.Author
	s.SrcIcon = config.SrcIcon
	s.Src = config.Src
	s.Type = config.Type
	s.Message = config.Message

	if s.client != nil {
		s.Project = s.client.Projects().Resolve(ProjectID(s.ProjectID))
	}
}

// EntityID implements Entity.
func (s *Submission) EntityID() string {
	return s.ID
}

// Ref returns a resolvable pointing at this submission.
func (s *Submission) Ref() Resolvable[*Submission] {
	return Ref(s)
}

// Edit patches the submission and overwrites it in place.
func (s *Submission) Edit(ctx context.Context, config *SubmissionConfig) (*Submission, error) {
	return s.client.Submissions().Edit(ctx, s, config)
}

// Delete removes the submission on the server and from the caches.
func (s *Submission) Delete(ctx context.Context) error {
	return s.client.Submissions().Delete(ctx, s)
}

// String returns the first non-empty of src, icon, message, author and id.
func (s *Submission) String() string {
	return firstNonEmpty(s.Src, s.SrcIcon, s.Message, s.Author, s.ID)
}

// SettingConfig is the wire shape of an admin setting.
type SettingConfig struct {
	ID    string `json:"_id"   yaml:"_id"`
	Value any    `json:"value" yaml:"value"`
}

// Setting is a server-side property keyed by name.
type Setting struct {
	ID    string
	Value any

	client Client
}

// NewSetting builds a setting bound to client from its wire shape.
func NewSetting(config SettingConfig, client Client) *Setting {
	return &Setting{
		ID:     config.ID,
		Value:  config.Value,
		client: client,
	}
}

// EntityID implements Entity.
func (s *Setting) EntityID() string {
	return s.ID
}

// Strings returns the value as a string list, for list-valued settings
// such as the whitelist.
func (s *Setting) Strings() []string {
	switch v := s.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch item := item.(type) {
			case string:
				out = append(out, item)
			case float64:
				out = append(out, strconv.FormatFloat(item, 'f', -1, 64))
			default:
				out = append(out, fmt.Sprint(item))
			}
		}

		return out
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
