package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
)

// cmdCart 购物车子命令
// 全部走协调器：先排队变更、成功后用服务端回读的快照展示
func (a *App) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("cart requires a subcommand: show, add, update, rm, clear")
	}
	switch args[0] {
	case "show":
		return a.cmdCartShow(ctx)
	case "add":
		return a.cmdCartAdd(ctx, args[1:])
	case "update":
		return a.cmdCartUpdate(ctx, args[1:])
	case "rm":
		return a.cmdCartRemove(ctx, args[1:])
	case "clear":
		return a.cmdCartClear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *App) cmdCartShow(ctx context.Context) error {
	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	a.printCart(a.cart.Cart())
	return nil
}

func (a *App) cmdCartAdd(ctx context.Context, args []string) error {
	productID, rest, err := parseIDArg(args, "product id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	quantity := fs.Int("quantity", 1, "quantity to add")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	if err := a.cart.AddToCart(ctx, productID, *quantity); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added product %d x%d  (items: %d, total: %s)\n",
		productID, *quantity, a.cart.ItemCount(), a.cart.Total())
	return nil
}

func (a *App) cmdCartUpdate(ctx context.Context, args []string) error {
	itemID, rest, err := parseIDArg(args, "cart item id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("cart update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	quantity := fs.Int("quantity", 0, "new quantity (>= 1)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if *quantity < 1 {
		return errors.New("cart update requires -quantity >= 1")
	}

	if err := a.cart.UpdateCartItem(ctx, itemID, *quantity); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "item %d set to x%d  (items: %d, total: %s)\n",
		itemID, *quantity, a.cart.ItemCount(), a.cart.Total())
	return nil
}

func (a *App) cmdCartRemove(ctx context.Context, args []string) error {
	itemID, _, err := parseIDArg(args, "cart item id")
	if err != nil {
		return err
	}

	if err := a.cart.RemoveFromCart(ctx, itemID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "item %d removed  (items: %d, total: %s)\n",
		itemID, a.cart.ItemCount(), a.cart.Total())
	return nil
}

func (a *App) cmdCartClear(ctx context.Context) error {
	if err := a.cart.ClearCart(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "cart cleared")
	return nil
}
