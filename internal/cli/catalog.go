package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/storefront-cli/internal/api"
)

func (a *App) cmdCategories(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}

	categories, err := a.client.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(a.out, "no categories")
		return nil
	}
	tw := a.newTable()
	tw.row("ID", "NAME", "DESCRIPTION")
	for _, c := range categories {
		tw.row(c.ID, c.Name, c.Description)
	}
	tw.flush()
	return nil
}

func (a *App) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	category := fs.Uint("category", 0, "filter by category id")
	search := fs.String("search", "", "filter by keyword")
	ordering := fs.String("ordering", "", "sort: price, -price, name, -name, created_at")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.client.Products(ctx, api.ProductFilters{
		CategoryID: uint(*category),
		Search:     *search,
		Ordering:   *ordering,
		Page:       *page,
	})
	if err != nil {
		return err
	}
	a.printProducts(list.Results)
	a.printPageFooter(list, *page)
	return nil
}

func (a *App) cmdProduct(ctx context.Context, args []string) error {
	id, _, err := parseIDArg(args, "product id")
	if err != nil {
		return err
	}

	product, err := a.client.Product(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  (%s)\n", product.Name, product.Category.Name)
	fmt.Fprintf(a.out, "price: %s  stock: %d  rating: %s\n",
		product.Price.String(), product.StockQuantity, formatRating(product.AverageRating))
	if product.Description != "" {
		fmt.Fprintln(a.out, product.Description)
	}
	if len(product.Reviews) > 0 {
		fmt.Fprintf(a.out, "\nreviews (%d):\n", len(product.Reviews))
		for _, review := range product.Reviews {
			fmt.Fprintf(a.out, "  [%d/5] %s: %s\n", review.Rating, review.UserName, review.Comment)
		}
	}
	return nil
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing search keyword")
	}
	keyword := args[0]

	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	list, err := a.client.Search(ctx, keyword, *page)
	if err != nil {
		return err
	}
	a.printProducts(list.Results)
	a.printPageFooter(list, *page)
	return nil
}

func (a *App) cmdFeatured(ctx context.Context, args []string) error {
	products, err := a.client.Featured(ctx)
	if err != nil {
		return err
	}
	a.printProducts(products)
	return nil
}

func (a *App) cmdReview(ctx context.Context, args []string) error {
	id, rest, err := parseIDArg(args, "product id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	rating := fs.Int("rating", 0, "rating 1-5")
	comment := fs.String("comment", "", "review text")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	review, err := a.client.CreateReview(ctx, id, api.ReviewInput{
		Rating:  *rating,
		Comment: *comment,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "review posted: [%d/5] %s\n", review.Rating, review.Comment)
	return nil
}

func (a *App) printPageFooter(list *api.ProductList, page int) {
	if list.Count == 0 {
		return
	}
	footer := fmt.Sprintf("page %d  (%d products", page, list.Count)
	if list.Next != nil {
		footer += ", more on next page"
	}
	footer += ")"
	fmt.Fprintln(a.out, footer)
}
