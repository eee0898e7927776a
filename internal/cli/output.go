package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/format"
	"shipment-dashboard/internal/shipment"
)

const barWidth = 30

// OutputFormatter handles different output formats
type OutputFormatter struct {
	out    io.Writer
	errOut io.Writer
	format string
	quiet  bool
	color  bool
	engine *analytics.Engine

	header   lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	badges   map[string]lipgloss.Style
	barStyle lipgloss.Style
}

// NewOutputFormatter creates a formatter writing to stdout and stderr.
func NewOutputFormatter(format string, quiet, noColor bool) *OutputFormatter {
	return NewOutputFormatterTo(os.Stdout, os.Stderr, format, quiet, noColor)
}

// NewOutputFormatterTo creates a formatter writing to the given streams.
// Colors are used only when out is a terminal and noColor is unset.
func NewOutputFormatterTo(out, errOut io.Writer, format string, quiet, noColor bool) *OutputFormatter {
	color := !noColor && isTerminal(out)

	renderer := lipgloss.NewRenderer(out)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &OutputFormatter{
		out:     out,
		errOut:  errOut,
		format:  format,
		quiet:   quiet,
		color:   color,
		engine:  analytics.NewEngine(),
		header:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("244")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("82")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("196")),
		badges: map[string]lipgloss.Style{
			shipment.ClassProcessing: renderer.NewStyle().Foreground(lipgloss.Color("226")),
			shipment.ClassInTransit:  renderer.NewStyle().Foreground(lipgloss.Color("75")),
			shipment.ClassCompleted:  renderer.NewStyle().Foreground(lipgloss.Color("82")),
		},
		barStyle: renderer.NewStyle().Foreground(lipgloss.Color("57")),
	}
}

// WithEngine sets the engine used to resolve dates and estimates, so they
// follow its time zone.
func (f *OutputFormatter) WithEngine(e *analytics.Engine) *OutputFormatter {
	if e != nil {
		f.engine = e
	}
	return f
}

// Color reports whether output is styled.
func (f *OutputFormatter) Color() bool {
	return f.color
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// PrintDashboard prints the counters, the monthly chart and recent orders.
func (f *OutputFormatter) PrintDashboard(v dashboard.DashboardView) error {
	if f.quiet {
		for _, r := range v.Recent {
			fmt.Fprintln(f.out, r.DocID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.printJSON(v)
	case "table":
		f.printStats(v.Stats)
		fmt.Fprintln(f.out)
		f.printMonths(v.Months)
		fmt.Fprintln(f.out)
		return f.printRecentTable(v.Recent)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintOrders prints the active orders table.
func (f *OutputFormatter) PrintOrders(v dashboard.OrdersView) error {
	if f.quiet {
		for _, r := range v.Rows {
			fmt.Fprintln(f.out, r.DocID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.printJSON(v)
	case "table":
		return f.printOrdersTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintHistory prints the completed orders table.
func (f *OutputFormatter) PrintHistory(v dashboard.HistoryView) error {
	if f.quiet {
		for _, r := range v.Rows {
			fmt.Fprintln(f.out, r.DocID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.printJSON(v)
	case "table":
		return f.printHistoryTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintAnalytics prints the analytics tab.
func (f *OutputFormatter) PrintAnalytics(v dashboard.AnalyticsView) error {
	if f.quiet {
		fmt.Fprintln(f.out, format.Number(v.Metrics.TotalRevenue))
		return nil
	}

	switch f.format {
	case "json":
		return f.printJSON(v)
	case "table":
		return f.printAnalytics(v)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintTracking prints a tracking lookup or a newly created shipment.
func (f *OutputFormatter) PrintTracking(r *api.TrackingResult) error {
	if f.quiet {
		fmt.Fprintln(f.out, r.NoResi)
		return nil
	}

	switch f.format {
	case "json":
		return f.printJSON(r)
	case "table":
		return f.printTracking(r)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintStatuses prints the status vocabulary with the numbers accepted by
// set-status.
func (f *OutputFormatter) PrintStatuses(statuses []string) error {
	if f.format == "json" && !f.quiet {
		return f.printJSON(statuses)
	}
	for i, s := range statuses {
		if f.quiet {
			fmt.Fprintln(f.out, s)
			continue
		}
		fmt.Fprintf(f.out, "%d. %s\n", i+1, f.badge(s))
	}
	return nil
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if !f.quiet {
		fmt.Fprintln(f.out, f.success.Render("✓ "+message))
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if !f.quiet {
		fmt.Fprintln(f.errOut, f.failure.Render("✗ Error: "+err.Error()))
	}
}

// PrintInfo prints an informational message
func (f *OutputFormatter) PrintInfo(message string) {
	if !f.quiet {
		fmt.Fprintln(f.out, f.muted.Render("ℹ "+message))
	}
}

func (f *OutputFormatter) printJSON(v any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) printStats(s analytics.Stats) {
	f.title("Ringkasan")
	f.printPairs([][2]string{
		{"Total Pesanan", format.Number(float64(s.Total))},
		{"Dalam Proses", format.Number(float64(s.Proses))},
		{"Dalam Pengiriman", format.Number(float64(s.Kirim))},
		{"Selesai", format.Number(float64(s.Selesai))},
		{"Pertumbuhan Minggu Ini", signedPercent(s.Growth)},
		{"Tingkat Penyelesaian", format.Percent(s.CompletionRate)},
	})
}

func (f *OutputFormatter) printMonths(months []analytics.MonthBucket) {
	f.title("Pengiriman per Bulan")
	values := make([]float64, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		values[i] = float64(m.Count)
		labels[i] = fmt.Sprintf("%s %d", m.Label, m.Year)
	}
	f.printBars(labels, values, format.Number)
}

func (f *OutputFormatter) printRecentTable(rows []dashboard.RecentRow) error {
	f.title("Pesanan Terbaru")
	if len(rows) == 0 {
		fmt.Fprintln(f.out, "Tidak ada pesanan aktif.")
		return nil
	}

	return f.table("RESI\tPEMBELI\tRUTE\tTANGGAL\tHARGA\tSTATUS", func(w io.Writer) {
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.NoResi,
				truncate(r.Buyer, 20),
				truncate(r.Route, 30),
				r.PurchaseDate,
				r.PriceDisplay,
				f.badge(r.Status))
		}
	})
}

func (f *OutputFormatter) printOrdersTable(v dashboard.OrdersView) error {
	if len(v.Rows) == 0 {
		fmt.Fprintln(f.out, "Tidak ada pesanan yang cocok.")
		return nil
	}

	err := f.table("NO\tDOC ID\tRESI\tPEMBELI\tBARANG\tQTY\tRUTE\tHARGA\tETA\tSTATUS", func(w io.Writer) {
		for _, r := range v.Rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				r.Index,
				r.DocID,
				r.NoResi,
				truncate(r.Buyer, 20),
				truncate(strings.Join(r.Items, "; "), 30),
				r.Quantity,
				truncate(r.Route, 30),
				r.PriceDisplay,
				r.Eta,
				f.badge(r.Status))
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(f.out, f.muted.Render(fmt.Sprintf("Menampilkan %d dari %d pesanan aktif", len(v.Rows), v.Total)))
	return nil
}

func (f *OutputFormatter) printHistoryTable(v dashboard.HistoryView) error {
	if len(v.Rows) == 0 {
		fmt.Fprintln(f.out, "Tidak ada riwayat pesanan.")
		return nil
	}

	err := f.table("NO\tRESI\tPEMBELI\tBARANG\tQTY\tRUTE\tHARGA\tETA\tTANGGAL", func(w io.Writer) {
		for _, r := range v.Rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				r.Index,
				r.NoResi,
				truncate(r.Buyer, 20),
				truncate(strings.Join(r.Items, "; "), 30),
				r.Quantity,
				truncate(r.Route, 30),
				r.PriceDisplay,
				r.Eta,
				r.PurchaseDate)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(f.out, f.muted.Render(fmt.Sprintf("Menampilkan %d dari %d pesanan selesai", len(v.Rows), v.Total)))
	return nil
}

func (f *OutputFormatter) printAnalytics(v dashboard.AnalyticsView) error {
	m := v.Metrics
	f.title("Analitik")
	f.printPairs([][2]string{
		{"Total Pendapatan", format.Currency(m.TotalRevenue)},
		{"Pertumbuhan Pendapatan", signedPercent(m.RevenueGrowth)},
		{"Rata-rata Pengiriman", format.Days(float64(m.AvgDelivery))},
		{"Tingkat Keberhasilan", format.Percent(m.SuccessRate)},
		{"Rute Aktif", format.Number(float64(m.ActiveRoutes))},
	})
	fmt.Fprintln(f.out)

	f.title("Pendapatan per Bulan")
	labels := make([]string, len(v.Revenue))
	values := make([]float64, len(v.Revenue))
	for i, p := range v.Revenue {
		labels[i] = fmt.Sprintf("%s %d", p.Label, p.Year)
		values[i] = p.Revenue
	}
	f.printBars(labels, values, format.Currency)
	fmt.Fprintln(f.out)

	f.title("Distribusi Status")
	for _, s := range v.Statuses {
		fmt.Fprintf(f.out, "  %-18s %5s  %s\n", s.Label, format.Number(float64(s.Count)), format.Percent(s.Percent))
	}
	fmt.Fprintln(f.out)

	f.title("Rute Teratas")
	if len(v.TopRoutes) == 0 {
		fmt.Fprintln(f.out, "  -")
	}
	for i, r := range v.TopRoutes {
		fmt.Fprintf(f.out, "  %d. %s (%d)\n", i+1, r.Route, r.Count)
	}
	fmt.Fprintln(f.out)

	f.title("Ringkasan " + v.MonthLabel)
	f.printPairs([][2]string{
		{"Pesanan", format.Number(float64(v.Monthly.Total))},
		{"Pendapatan", format.Currency(v.Monthly.Revenue)},
		{"Selesai", format.Number(float64(v.Monthly.Completed))},
		{"Tingkat Penyelesaian", format.Percent(v.Monthly.CompletionRate)},
	})
	return nil
}

func (f *OutputFormatter) printTracking(r *api.TrackingResult) error {
	pairs := [][2]string{
		{"No. Resi", orDash(r.NoResi)},
		{"Status", f.badge(r.Status)},
	}
	if r.Origin != "" || r.Dest != "" {
		pairs = append(pairs, [2]string{"Rute", orDash(r.Origin) + " → " + orDash(r.Dest)})
	}
	if r.ShippingPrice.Present() {
		pairs = append(pairs, [2]string{"Ongkos Kirim", format.Currency(r.ShippingPrice.Float())})
	}
	if r.DistributorName != "" {
		pairs = append(pairs, [2]string{"Distributor", r.DistributorName})
	}
	pairs = append(pairs, [2]string{"Estimasi", f.trackingEta(r)})
	if r.PurchasedAt.Truthy() {
		date := r.PurchasedAt.String()
		if t, ok := f.engine.NormalizeDate(r.PurchasedAt); ok {
			date = format.DateTime(t)
		}
		pairs = append(pairs, [2]string{"Tanggal Pembelian", date})
	}

	f.printPairs(pairs)
	return nil
}

// trackingEta renders a lookup's estimate the way active orders show theirs.
func (f *OutputFormatter) trackingEta(r *api.TrackingResult) string {
	rec := shipment.Record{
		EtaDays:         r.EtaDays,
		EtaText:         r.EtaText,
		EtaDeliveryDate: r.EtaDeliveryDate,
	}
	return f.engine.ResolveEtaDisplay(&rec, nil)
}

func (f *OutputFormatter) title(s string) {
	fmt.Fprintln(f.out, f.header.Render(s))
}

func (f *OutputFormatter) printPairs(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(f.out, "  %-*s  %s\n", width, p[0], p[1])
	}
}

func (f *OutputFormatter) printBars(labels []string, values []float64, show func(float64) string) {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	for i, v := range values {
		n := 0
		if peak > 0 {
			n = int(v / peak * barWidth)
		}
		bar := f.barStyle.Render(strings.Repeat("█", n))
		fmt.Fprintf(f.out, "  %-9s %s %s\n", labels[i], bar, show(v))
	}
}

// table renders rows through a tabwriter and styles the header line. Styled
// cells must sit in the last column so escape codes do not skew alignment.
func (f *OutputFormatter) table(header string, rows func(w io.Writer)) error {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	if err := w.Flush(); err != nil {
		return err
	}

	head, body, _ := strings.Cut(buf.String(), "\n")
	fmt.Fprintln(f.out, f.header.Render(head))
	_, err := io.WriteString(f.out, body)
	return err
}

func (f *OutputFormatter) badge(status string) string {
	if status == "" || status == "-" {
		return "-"
	}
	return f.badges[shipment.StatusClass(status)].Render(status)
}

func signedPercent(p int) string {
	if p > 0 {
		return "+" + format.Percent(p)
	}
	return format.Percent(p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
