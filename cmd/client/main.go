package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/checkout"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/devserver"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/signals"
	"github.com/storefront-next/internal/store"
)

func main() {
	var userID uint64
	flag.Uint64Var(&userID, "user", 1, "user id for the self-signed demo token")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	token := cfg.Backend.Token
	if token == "" {
		// 未配置凭证时对着本地联调后端自签一个
		signed, err := devserver.SignUserToken(cfg.JWT.SecretKey, uint(userID), 24*time.Hour)
		if err != nil {
			stdLog.Fatalf("签发演示凭证失败: %v", err)
		}
		token = signed
	}

	client, err := api.New(api.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Token:          token,
		TimeoutSeconds: cfg.Backend.TimeoutSeconds,
	})
	if err != nil {
		stdLog.Fatalf("后端客户端初始化失败: %v", err)
	}

	hub := signals.NewHub()
	changes, cancel := hub.Subscribe(constants.TopicCartChanged, 8)
	defer cancel()
	go func() {
		for event := range changes {
			logger.Debugw("cart_changed", "topic", event.Topic)
		}
	}()

	carts := store.New(client, hub)
	ctx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()

	if err := carts.Refresh(ctx); err != nil {
		stdLog.Fatalf("购物车拉取失败: %v", err)
	}
	cart := carts.Snapshot()
	fmt.Printf("购物车: %d 件商品, 小计 %s %s\n", cart.TotalItems, cart.TotalAmount, cfg.Payment.Currency)
	for _, item := range cart.Items {
		fmt.Printf("  - #%d %s x%d @ %s (color=%q size=%q)\n",
			item.ID, item.Name, item.Quantity, item.UnitPrice, item.Color, item.Size)
	}

	builder := checkout.NewBuilder(carts, client, cfg.Payment.Currency)
	for _, option := range checkout.ShippingMethods(cart.TotalAmount) {
		marker := " "
		if !option.Available {
			marker = "x"
		}
		fmt.Printf("  [%s] %s %s\n", marker, option.Method, option.Fee)
	}
	if err := builder.PreflightItemOptions(); err != nil {
		fmt.Printf("结账前置校验未通过: %v\n", err)
		return
	}
	fmt.Printf("应付金额(standard): ")
	if err := builder.SelectShipping(constants.ShippingMethodStandard); err != nil {
		fmt.Printf("配送方式不可用: %v\n", err)
		return
	}
	fmt.Printf("%s\n", builder.Total())
}
