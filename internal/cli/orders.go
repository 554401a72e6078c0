package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/storefront-cli/internal/api"
)

func (a *App) cmdOrder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("order requires a subcommand: create, list, show, cancel, history")
	}
	switch args[0] {
	case "create":
		return a.cmdOrderCreate(ctx, args[1:])
	case "list":
		return a.cmdOrderList(ctx)
	case "show":
		return a.cmdOrderShow(ctx, args[1:])
	case "cancel":
		return a.cmdOrderCancel(ctx, args[1:])
	case "history":
		return a.cmdOrderHistory(ctx)
	default:
		return fmt.Errorf("unknown order subcommand %q", args[0])
	}
}

func (a *App) cmdOrderCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	addressID := fs.Uint("address", 0, "shipping address id")
	payment := fs.String("payment", "", "payment method (credit_card, debit_card, paypal, bank_transfer, cash_on_delivery)")
	notes := fs.String("notes", "", "order notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addressID == 0 || *payment == "" {
		return errors.New("order create requires -address and -payment")
	}

	order, err := a.client.CreateOrder(ctx, api.CreateOrderInput{
		ShippingAddressID: uint(*addressID),
		PaymentMethod:     *payment,
		Notes:             *notes,
	})
	if err != nil {
		return err
	}

	// 下单会清空服务端购物车，刷新本地快照保持一致
	if err := a.cart.Refresh(ctx); err != nil {
		fmt.Fprintf(a.errOut, "warning: cart refresh after order failed: %v\n", err)
	}

	fmt.Fprintf(a.out, "order %s placed\n", order.OrderNumber)
	a.printOrder(order)
	return nil
}

func (a *App) cmdOrderList(ctx context.Context) error {
	orders, err := a.client.Orders(ctx)
	if err != nil {
		return err
	}
	a.printOrders(orders)
	return nil
}

func (a *App) cmdOrderShow(ctx context.Context, args []string) error {
	id, _, err := parseIDArg(args, "order id")
	if err != nil {
		return err
	}

	order, err := a.client.Order(ctx, id)
	if err != nil {
		return err
	}
	a.printOrder(order)
	return nil
}

func (a *App) cmdOrderCancel(ctx context.Context, args []string) error {
	id, _, err := parseIDArg(args, "order id")
	if err != nil {
		return err
	}

	order, err := a.client.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s cancelled (payment %s)\n", order.OrderNumber, order.PaymentStatus)
	return nil
}

func (a *App) cmdOrderHistory(ctx context.Context) error {
	orders, err := a.client.OrderHistory(ctx)
	if err != nil {
		return err
	}
	a.printOrders(orders)
	return nil
}
