package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

const defaultWidth = 80

type Renderer struct {
	styles Styles
	width  int
}

func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Renderer{styles: DefaultStyles(), width: width}
}

func (r *Renderer) page(title string, blocks ...string) string {
	header := r.styles.Brand.Render("DexNote") + "  " + r.styles.Title.Render(title)
	parts := append([]string{header}, blocks...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (r *Renderer) card(lines ...string) string {
	return r.styles.Card.Width(r.width - 4).Render(strings.Join(lines, "\n"))
}

func (r *Renderer) hint(format string, args ...any) string {
	return r.styles.KeyHint.Render(fmt.Sprintf(format, args...))
}

func (r *Renderer) Loading() string {
	return r.styles.Subtle.Render("Loading...") + "\n"
}

func (r *Renderer) Landing(s domain.Session) string {
	intro := "Your learning space for courses, notes and AI study tools."
	var next string
	if s.Authenticated() {
		next = r.hint("Signed in as %s. Continue with: dexnote open /dashboard", s.User.DisplayName())
	} else {
		next = r.hint("Get started with: dexnote signup  or  dexnote login")
	}
	return r.page("Learn smarter", r.card(intro), next)
}

func (r *Renderer) Login() string {
	return r.page("Welcome back",
		r.card("Sign in with your email and password."),
		r.hint("dexnote login --email you@example.com"),
		r.hint("No account yet? dexnote signup"),
	)
}

func (r *Renderer) Signup() string {
	return r.page("Create your account",
		r.card("Pick a username and sign up with your email."),
		r.hint("dexnote signup --username ada --email you@example.com"),
		r.hint("Already registered? dexnote login"),
	)
}

func (r *Renderer) Dashboard(u domain.User) string {
	quick := []string{
		r.styles.Accent.Render("Browse Courses") + "     explore all available courses       /courses",
		r.styles.Accent.Render("Study Materials") + "    access notes and resources          /notes",
		r.styles.Accent.Render("AI Tools") + "           tools that help you study           /ai-tools",
	}
	return r.page("Dashboard",
		r.styles.Title.Render(fmt.Sprintf("Welcome back, %s!", u.DisplayName())),
		r.card(append([]string{r.styles.Title.Render("Quick Access")}, quick...)...),
		r.hint("Profile: dexnote open /profile   Logout: dexnote logout"),
	)
}

func (r *Renderer) Courses(courses []domain.Course, category string, fallback bool) string {
	if category == "" {
		category = "all"
	}
	blocks := []string{r.hint("Category: %s  (one of %s)", category, strings.Join(domain.CourseCategories, ", "))}
	if fallback {
		blocks = append(blocks, r.styles.Warning.Render("Showing the built-in catalog."))
	}
	if len(courses) == 0 {
		blocks = append(blocks, r.card("No courses found", r.styles.Subtle.Render("Try selecting a different category")))
		return r.page("All Courses", blocks...)
	}
	for _, c := range courses {
		meta := []string{c.Difficulty, c.Duration}
		if c.ModulesCount > 0 {
			meta = append(meta, fmt.Sprintf("%d modules", c.ModulesCount))
		}
		lines := []string{
			r.styles.Title.UnsetMarginBottom().Render(c.Title) + "  " + r.styles.Badge.Render(c.Category),
			c.Description,
			r.styles.Subtle.Render(strings.Join(nonEmpty(meta), " · ")),
			r.hint("dexnote open /courses/%s", c.ID),
		}
		blocks = append(blocks, r.card(lines...))
	}
	return r.page("All Courses", blocks...)
}

func (r *Renderer) CourseDetail(d service.CourseDetail) string {
	c := d.Course
	header := []string{c.Description}
	if c.Instructor != "" {
		header = append(header, r.styles.Subtle.Render("Instructor: "+c.Instructor))
	}
	if c.Rating > 0 {
		header = append(header, r.styles.Subtle.Render(fmt.Sprintf("Rating %.1f · %d enrolled", c.Rating, c.Enrolled)))
	}
	if len(c.Tags) > 0 {
		header = append(header, r.styles.Subtle.Render(strings.Join(c.Tags, ", ")))
	}

	modules := []string{r.styles.Title.UnsetMarginBottom().Render("Modules")}
	if len(d.Modules) == 0 {
		modules = append(modules, r.styles.Subtle.Render("No modules published yet."))
	}
	for i, m := range d.Modules {
		mark := "[ ]"
		if d.Progress[m.ID] {
			mark = r.styles.Success.Render("[x]")
		}
		modules = append(modules, fmt.Sprintf("%s %d. %s  %s", mark, i+1, m.Title, r.styles.Subtle.Render(m.Duration)))
	}

	var status string
	switch {
	case d.Enrolled && len(d.Modules) > 0:
		status = r.styles.Success.Render(fmt.Sprintf("Enrolled · %d/%d modules completed", d.CompletedCount(), len(d.Modules)))
	case d.Enrolled:
		status = r.styles.Success.Render("Enrolled")
	case c.RequiresTerms:
		status = r.hint("Enroll: dexnote enroll %s --accept-terms", c.ID)
	default:
		status = r.hint("Enroll: dexnote enroll %s", c.ID)
	}
	return r.page(c.Title, r.card(header...), r.card(modules...), status)
}

func (r *Renderer) AITools(tools []domain.AITool) string {
	blocks := make([]string, 0, len(tools)+1)
	for _, t := range tools {
		blocks = append(blocks, r.card(
			r.styles.Accent.Render(t.Name)+"  "+r.styles.Badge.Render(t.Category),
			t.Description,
			r.styles.Subtle.Render(strings.Join(t.Features, " · ")),
		))
	}
	blocks = append(blocks, r.hint("Try the math solver: dexnote solve \"2x + 3 = 7\""))
	return r.page("AI Tools", blocks...)
}

func (r *Renderer) Profile(u domain.User) string {
	lines := []string{
		"Username: " + u.Username,
		"Email:    " + u.Email,
	}
	if u.FullName != "" {
		lines = append(lines, "Name:     "+u.FullName)
	}
	if !u.CreatedAt.IsZero() {
		lines = append(lines, "Joined:   "+u.CreatedAt.Format("January 2, 2006"))
	}
	return r.page("Profile", r.card(lines...), r.hint("dexnote profile update --username NAME --email EMAIL"))
}

func (r *Renderer) Notes(notes []domain.Note) string {
	if len(notes) == 0 {
		return r.page("Study Notes", r.card(r.styles.Subtle.Render("No notes yet.")), r.hint("dexnote notes add --title TITLE"))
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", r.styles.Subtle.Render(n.ID), n.Title, r.styles.Subtle.Render(n.CreatedAt.Local().Format("2006-01-02 15:04"))))
	}
	return r.page("Study Notes", r.card(lines...), r.hint("dexnote notes show ID"))
}

func (r *Renderer) Note(n domain.Note) string {
	body := n.Content
	if strings.TrimSpace(body) == "" {
		body = r.styles.Subtle.Render("(empty)")
	}
	return r.page(n.Title, r.card(body), r.styles.Subtle.Render(n.ID))
}

func (r *Renderer) NotFound(path string) string {
	return r.page("Not found", r.card(fmt.Sprintf("Nothing lives at %s.", path)), r.hint("dexnote open /"))
}

func nonEmpty(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
