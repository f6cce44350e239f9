package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/bfadmin/internal/client/models"
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeWarning
	noticeDanger
)

var (
	blue  = lipgloss.Color("#3B82F6")
	green = lipgloss.Color("#22C55E")
	amber = lipgloss.Color("#F59E0B")
	red   = lipgloss.Color("#F87171")
	slate = lipgloss.Color("#334155")
	gray  = lipgloss.Color("#9CA3AF")

	noticeStyles = map[noticeKind]lipgloss.Style{
		noticeInfo:    lipgloss.NewStyle().Foreground(blue),
		noticeSuccess: lipgloss.NewStyle().Foreground(green),
		noticeWarning: lipgloss.NewStyle().Foreground(amber),
		noticeDanger:  lipgloss.NewStyle().Foreground(red).Bold(true),
	}
	noticeIcons = map[noticeKind]string{
		noticeInfo:    "i",
		noticeSuccess: "ok",
		noticeWarning: "!",
		noticeDanger:  "x",
	}

	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(gray)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func writeNotice(w io.Writer, kind noticeKind, msg string) {
	fmt.Fprintln(w, noticeStyles[kind].Render("["+noticeIcons[kind]+"] "+msg))
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(slate)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func moneyPtr(v *float64) string {
	if v == nil {
		return money(0)
	}
	return money(*v)
}

func count(v *int) string {
	if v == nil {
		return "0"
	}
	return strconv.Itoa(*v)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatStamp shows unparseable backend timestamps as they came.
func formatStamp(t *models.Timestamp) string {
	switch {
	case t == nil || t.IsZero():
		return "-"
	case t.Parsed():
		return formatTime(&t.Time)
	default:
		return t.Raw
	}
}

func whitelistTable(items []models.WhitelistEntry, admin bool) string {
	headers := []string{"ID", "UID", "Region", "Expires", "Status"}
	if admin {
		headers = []string{"ID", "UID", "Region", "Seller", "Expires", "Status"}
	}
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		row := []string{string(w.ID), w.UID, w.Region}
		if admin {
			row = append(row, string(w.SellerID))
		}
		rows = append(rows, append(row, formatStamp(w.ExpiresAt), w.Status()))
	}
	return renderTable(headers, rows)
}

func resellerTable(items []models.Reseller) string {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		status := "active"
		if !r.IsActive {
			status = "disabled"
		}
		rows = append(rows, []string{string(r.ID), r.Username, r.Plan, money(r.Balance), status, formatStamp(r.CreatedAt)})
	}
	return renderTable([]string{"ID", "Username", "Plan", "Balance", "Status", "Created"}, rows)
}

func logTable(items []models.ActivityLogEntry) string {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		ts := e.Timestamp
		rows = append(rows, []string{formatStamp(&ts), string(e.UserID), e.Action, e.DetailsText()})
	}
	return renderTable([]string{"Time", "User", "Action", "Details"}, rows)
}

func statsTable(s *models.Stats, admin bool) string {
	if s == nil {
		s = &models.Stats{}
	}
	if admin {
		return renderTable([]string{"Resellers", "UIDs", "Total balance"},
			[][]string{{count(s.TotalResellers), count(s.TotalUIDs), moneyPtr(s.TotalBalance)}})
	}
	return renderTable([]string{"Whitelists", "Active", "Balance"},
		[][]string{{count(s.TotalWhitelists), count(s.ActiveWhitelists), moneyPtr(s.Balance)}})
}

func pricingTable(p models.Pricing) string {
	rows := make([][]string, 0, len(p))
	for _, d := range p.Days() {
		rows = append(rows, []string{fmt.Sprintf("%d days", d), money(p[d])})
	}
	return renderTable([]string{"Duration", "Price"}, rows)
}

// userCard is the sidebar of the web dashboard: name, plan and balance for
// resellers, then the role.
func userCard(u *models.User) string {
	lines := [][]string{{"User", u.Username}}
	if !u.IsAdmin() {
		plan := u.Plan
		if plan == "" {
			plan = "Basic"
		}
		lines = append(lines, []string{"Plan", plan}, []string{"Balance", moneyPtr(u.Balance)})
	}
	lines = append(lines, []string{"Role", u.RoleTitle()})

	out := ""
	for _, l := range lines {
		out += mutedStyle.Render(fmt.Sprintf("%-8s", l[0]+":")) + " " + l[1] + "\n"
	}
	return out
}
