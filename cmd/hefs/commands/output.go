package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
)

// GuildView is the printable form of a guild.
type GuildView struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string `json:"image,omitempty"       yaml:"image,omitempty"`
	Invite      string `json:"invite,omitempty"      yaml:"invite,omitempty"`
	Debut       string `json:"debut,omitempty"       yaml:"debut,omitempty"`
	Color       string `json:"color,omitempty"       yaml:"color,omitempty"`
	Projects    int    `json:"projects"              yaml:"projects"`
}

// ProjectView is the printable form of a project.
type ProjectView struct {
	ID               string   `json:"id"                          yaml:"id"`
	Title            string   `json:"title"                       yaml:"title"`
	Status           string   `json:"status"                      yaml:"status"`
	Guild            string   `json:"guild"                       yaml:"guild"`
	GuildName        string   `json:"guild_name,omitempty"        yaml:"guild_name,omitempty"`
	URL              string   `json:"url"                         yaml:"url"`
	ShortDescription string   `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	Date             string   `json:"date,omitempty"              yaml:"date,omitempty"`
	Media            []string `json:"media,omitempty"             yaml:"media,omitempty"`
	Links            []string `json:"links,omitempty"             yaml:"links,omitempty"`
	Flags            []string `json:"flags,omitempty"             yaml:"flags,omitempty"`
}

// SubmissionView is the printable form of a submission.
type SubmissionView struct {
	ID      string `json:"id"                 yaml:"id"`
	Project string `json:"project"            yaml:"project"`
	Type    string `json:"type"               yaml:"type"`
	Author  string `json:"author,omitempty"   yaml:"author,omitempty"`
	Content string `json:"content"            yaml:"content"`
}

// SettingView is the printable form of a setting.
type SettingView struct {
	ID     string   `json:"id"     yaml:"id"`
	Values []string `json:"values" yaml:"values"`
}

func newGuildView(guild *hefs.Guild) GuildView {
	view := GuildView{
		ID:          guild.ID,
		Name:        guild.Name,
		Description: guild.Description,
		Image:       guild.Image,
		Invite:      guild.Invite,
		Debut:       formatDate(guild.Debut),
		Color:       guild.Color,
	}

	if guild.Projects != nil {
		view.Projects = guild.Projects.Cache().Len()
	}

	return view
}

func newProjectView(project *hefs.Project) ProjectView {
	view := ProjectView{
		ID:               project.ID,
		Title:            project.Title,
		Status:           string(project.Status),
		Guild:            project.GuildID,
		URL:              project.URL,
		ShortDescription: project.ShortDescription,
		Date:             formatDate(project.Date),
		Flags:            project.Flags,
	}

	if project.Guild != nil {
		view.GuildName = project.Guild.Name
	}

	for _, media := range project.Media {
		view.Media = append(view.Media, media.String())
	}

	for _, link := range project.Links {
		view.Links = append(view.Links, link.String())
	}

	return view
}

func newSubmissionView(submission *hefs.Submission) SubmissionView {
	return SubmissionView{
		ID:      submission.ID,
		Project: submission.ProjectID,
		Type:    string(submission.Type),
		Author:  submission.Author,
		Content: submission.String(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}

func isOutputFormat(format string) bool {
	switch format {
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return true
	default:
		return false
	}
}

// renderOutput writes data as JSON or YAML, or calls fill to populate a table.
func renderOutput(w io.Writer, format string, data interface{}, fill func(table *tablewriter.Table)) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(w)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// formatCell truncates long values and marks empty ones.
func formatCell(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	value = strings.ReplaceAll(value, "\n", " ")

	runes := []rune(value)
	if len(runes) > constants.StringTruncationLimit {
		return string(runes[:constants.StringTruncationLimit-3]) + "..."
	}

	return value
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
