package pos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
)

const receiptWidth = 40

// Receipts renders plain-text tickets for committed sales.
type Receipts struct {
	ShopName string
	// Dir receives ticket files. Empty disables Save.
	Dir string
}

// Render writes the ticket for s to w.
func (p Receipts) Render(w io.Writer, s *Sale) error {
	rule := strings.Repeat("-", receiptWidth)
	var b strings.Builder
	fmt.Fprintln(&b, center(p.ShopName, receiptWidth))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Ticket n° %d\n", s.ID)
	fmt.Fprintf(&b, "Date: %s\n", s.CreatedAt.Local().Format("02/01/2006 15:04"))
	if s.Cashier != "" {
		fmt.Fprintf(&b, "Caissier: %s\n", s.Cashier)
	}
	fmt.Fprintln(&b, rule)

	tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	for _, li := range s.Items {
		fmt.Fprintf(tw, "%s\t\n", truncate(li.Name, receiptWidth))
		fmt.Fprintf(tw, "  %d x %s\t%s\t\n", li.Quantity, li.UnitSalePrice.StringFixed(2), li.Subtotal().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "TOTAL: %s\n", s.Total.StringFixed(2))
	fmt.Fprintf(&b, "Articles: %d\n", s.Units())
	if pay := s.Payment; pay != nil {
		fmt.Fprintf(&b, "Paiement: %s\n", pay.Method)
		fmt.Fprintf(&b, "Reçu: %s\n", pay.Tendered.StringFixed(2))
		fmt.Fprintf(&b, "Rendu: %s\n", pay.Change.StringFixed(2))
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, center("Merci de votre visite", receiptWidth))

	_, err := io.WriteString(w, b.String())
	return err
}

// Save writes the ticket to Dir/ticket_<id>.txt and returns the path.
func (p Receipts) Save(s *Sale) (string, error) {
	if p.Dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	path := filepath.Join(p.Dir, fmt.Sprintf("ticket_%d.txt", s.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create receipt: %w", err)
	}
	if err := p.Render(f, s); err != nil {
		f.Close()
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, f.Close()
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
