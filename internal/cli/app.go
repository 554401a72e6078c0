package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/storefront-cli/internal/api"
	"github.com/storefront-cli/internal/cartsync"
	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/session"
)

// App shopctl 命令行应用
// 所有购物车操作只经过 coordinator，不直连网关
type App struct {
	cfg     *config.Config
	session *session.Store
	client  *api.Client
	cart    *cartsync.Coordinator
	out     io.Writer
	errOut  io.Writer
}

// New 组装会话、网关客户端与购物车协调器
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := session.NewStore(cfg.API.StateFile)
	if err != nil {
		return nil, fmt.Errorf("init session store failed: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Tokens:  store,
	})
	if err != nil {
		return nil, err
	}

	coordinator := cartsync.NewCoordinator(client, cartsync.NewCache())
	coordinator.SetAuthenticated(store.LoggedIn())

	return &App{
		cfg:     cfg,
		session: store,
		client:  client,
		cart:    coordinator,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}, nil
}

// Close 释放协调器
func (a *App) Close() {
	a.cart.Close()
}

// Run 分发子命令
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return errors.New("missing command")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "categories":
		return a.cmdCategories(ctx, rest)
	case "products":
		return a.cmdProducts(ctx, rest)
	case "product":
		return a.cmdProduct(ctx, rest)
	case "search":
		return a.cmdSearch(ctx, rest)
	case "featured":
		return a.cmdFeatured(ctx, rest)
	case "review":
		return a.cmdReview(ctx, rest)
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx, rest)
	case "whoami":
		return a.cmdWhoami(ctx, rest)
	case "address":
		return a.cmdAddress(ctx, rest)
	case "cart":
		return a.cmdCart(ctx, rest)
	case "order":
		return a.cmdOrder(ctx, rest)
	case "help", "-h", "--help":
		a.printUsage()
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.errOut, `shopctl - storefront command line client

Usage:
  shopctl <command> [flags]

Catalog:
  categories                     List product categories
  products   [-category] [-search] [-ordering] [-page]
  product    <id>                Show product detail with reviews
  search     <keyword> [-page]   Search products
  featured                       List featured products
  review     <product-id> -rating <1-5> [-comment]

Account:
  login      -username -password
  register   -username -email -password [-first-name] [-last-name] [-phone]
  logout
  whoami
  address    list | add

Cart:
  cart show                      Fetch and print the cart
  cart add    <product-id> [-quantity]
  cart update <item-id> -quantity <n>
  cart rm     <item-id>
  cart clear

Orders:
  order create -address <id> -payment <method> [-notes]
  order list
  order show   <id>
  order cancel <id>
  order history
`)
}
