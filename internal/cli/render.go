package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/storefront-cli/internal/models"
)

// table 对齐输出辅助
type table struct {
	writer *tabwriter.Writer
}

func (a *App) newTable() *table {
	return &table{writer: tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)}
}

func (t *table) row(cells ...interface{}) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(t.writer, "\t")
		}
		fmt.Fprint(t.writer, cell)
	}
	fmt.Fprintln(t.writer)
}

func (t *table) flush() {
	_ = t.writer.Flush()
}

func (a *App) printProducts(products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(a.out, "no products found")
		return
	}
	tw := a.newTable()
	tw.row("ID", "NAME", "PRICE", "STOCK", "RATING", "CATEGORY")
	for _, p := range products {
		tw.row(p.ID, p.Name, p.Price.String(), p.StockQuantity, formatRating(p.AverageRating), p.Category.Name)
	}
	tw.flush()
}

func (a *App) printCart(cart *models.Cart) {
	if cart == nil || len(cart.Items) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return
	}
	tw := a.newTable()
	tw.row("ITEM", "PRODUCT", "QTY", "UNIT", "TOTAL")
	for _, item := range cart.Items {
		tw.row(item.ID, item.Product.Name, item.Quantity, item.Product.Price.String(), item.TotalPrice.String())
	}
	tw.flush()
	fmt.Fprintf(a.out, "items: %d  total: %s\n", cart.TotalItems, cart.TotalPrice.String())
}

func (a *App) printOrders(orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "no orders")
		return
	}
	tw := a.newTable()
	tw.row("ID", "NUMBER", "STATUS", "PAYMENT", "TOTAL", "CREATED")
	for _, o := range orders {
		tw.row(o.ID, o.OrderNumber, o.Status, o.PaymentStatus, o.FinalTotal.String(), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.flush()
}

func (a *App) printOrder(order *models.Order) {
	fmt.Fprintf(a.out, "order %s  status=%s payment=%s\n", order.OrderNumber, order.Status, order.PaymentStatus)
	if order.ShippingAddress.ID != 0 {
		addr := order.ShippingAddress
		fmt.Fprintf(a.out, "ship to: %s, %s, %s\n", addr.StreetAddress, addr.City, addr.Country)
	}
	tw := a.newTable()
	tw.row("PRODUCT", "QTY", "PRICE", "TOTAL")
	for _, item := range order.Items {
		tw.row(item.Product.Name, item.Quantity, item.Price.String(), item.TotalPrice.String())
	}
	tw.flush()
	fmt.Fprintf(a.out, "subtotal: %s  shipping: %s  tax: %s  total: %s\n",
		order.TotalAmount.String(), order.ShippingCost.String(), order.TaxAmount.String(), order.FinalTotal.String())
	if order.Notes != "" {
		fmt.Fprintf(a.out, "notes: %s\n", order.Notes)
	}
}

func formatRating(rating float64) string {
	if rating <= 0 {
		return "-"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// parseIDArg 解析子命令的数字 ID 位置参数
func parseIDArg(args []string, what string) (uint, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, nil, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return uint(id), args[1:], nil
}
