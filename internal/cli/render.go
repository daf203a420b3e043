package cli

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"visionlink/internal/types"
)

var (
	planNameStyle = lipgloss.NewStyle().Bold(true)
	badgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FACC15"))
	priceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func renderPlan(w io.Writer, p types.Plan) {
	title := planNameStyle.Render(p.Name)
	if p.IsPopular {
		title += " " + badgeStyle.Render("★ MAIS POPULAR")
	}
	lipgloss.Fprintln(w, title)
	lipgloss.Fprintln(w, "  "+priceStyle.Render(p.Price.String()+"/mês")+"  "+fmt.Sprintf("%d Mbps", p.SpeedMbps))
	if p.Description != "" {
		lipgloss.Fprintln(w, "  "+mutedStyle.Render(p.Description))
	}
	for _, f := range p.Features {
		lipgloss.Fprintln(w, "  • "+f)
	}
	lipgloss.Fprintln(w, "  "+mutedStyle.Render(fmt.Sprintf("id %d · slug %s", p.ID, p.Slug)))
}

func renderPlans(w io.Writer, heading string, plans []types.Plan) {
	lipgloss.Fprintln(w, headingStyle.Render(heading))
	if len(plans) == 0 {
		lipgloss.Fprintln(w, mutedStyle.Render("  (none)"))
		return
	}
	for _, p := range plans {
		renderPlan(w, p)
	}
}

func renderUser(w io.Writer, u *types.User) {
	lipgloss.Fprintln(w, planNameStyle.Render(u.FullName())+" <"+u.Email+">")
	if u.Phone != "" {
		fmt.Fprintln(w, "  phone:   "+u.Phone)
	}
	if u.Address != "" {
		fmt.Fprintln(w, "  address: "+u.Address)
	}
}

func renderHistory(w io.Writer, h *types.ChatHistory) {
	lipgloss.Fprintln(w, headingStyle.Render("Session "+h.SessionID))
	if len(h.Conversations) == 0 {
		lipgloss.Fprintln(w, mutedStyle.Render("  (no messages yet)"))
		return
	}
	for _, c := range h.Conversations {
		fmt.Fprintf(w, "[%d] you: %s\n", c.ID, c.Message)
		fmt.Fprintf(w, "     bot: %s\n", strings.TrimSpace(c.Response))
	}
}
