package cmd

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"checkout/internal/adapters/out/paypal"
	"checkout/internal/adapters/out/postgres"
	"checkout/internal/adapters/out/postgres/couponrepo"
	"checkout/internal/adapters/out/postgres/productrepo"
	"checkout/internal/adapters/out/postgres/taxraterepo"
	"checkout/internal/adapters/out/redis/inventorystore"
	"checkout/internal/adapters/out/shipping"
	"checkout/internal/adapters/out/smtp"
	"checkout/internal/adapters/out/stripe"
	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/application/usecases/queries"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/services"
	"checkout/internal/core/ports"
	"checkout/internal/jobs"
)

type CompositionRoot struct {
	configs     Config
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	pricing     *services.PricingService
	inventory   ports.InventoryStore
	verifier    commands.PaymentVerifier
	carrier     ports.CarrierGateway
	mailer      ports.Mailer
	fromAddress kernel.Address
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, redisClient *redis.Client) (*CompositionRoot, error) {
	couponEvaluator, err := services.NewCouponEvaluator(couponrepo.NewGormCouponRepository(gormDB))
	if err != nil {
		return nil, err
	}

	taxResolver, err := services.NewTaxResolver(taxraterepo.NewGormTaxRateRepository(gormDB))
	if err != nil {
		return nil, err
	}

	pricing, err := services.NewPricingService(couponEvaluator, taxResolver)
	if err != nil {
		return nil, err
	}

	paypalGateway, err := paypal.NewGateway(configs.PayPalBaseURL, configs.PayPalClientID, configs.PayPalSecret)
	if err != nil {
		return nil, err
	}

	stripeGateway, err := stripe.NewGateway(configs.StripeBaseURL, configs.StripeSecretKey)
	if err != nil {
		return nil, err
	}

	carrierGateway, err := shipping.NewGateway(configs.CarrierBaseURL, configs.CarrierAPIKey)
	if err != nil {
		return nil, err
	}

	mailer, err := smtp.NewMailer(
		configs.SMTPHost, configs.SMTPPort,
		configs.SMTPUsername, configs.SMTPPassword, configs.SMTPFrom,
	)
	if err != nil {
		return nil, err
	}

	fromAddress, err := kernel.NewAddress(
		configs.WarehouseName, configs.WarehouseStreet1, "",
		configs.WarehouseCity, configs.WarehouseState, configs.WarehousePostalCode,
		configs.WarehouseCountry, configs.WarehousePhone,
	)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		configs:     configs,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		pricing:     pricing,
		inventory:   inventorystore.NewRedisInventoryStore(redisClient),
		verifier:    commands.NewPaymentVerifier(paypalGateway, stripeGateway, configs.StoreCurrency),
		carrier:     carrierGateway,
		mailer:      mailer,
		fromAddress: fromAddress,
		logger:      slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}, nil
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckoutCommandHandler(
		f,
		productrepo.NewGormProductRepository(c.gormDB),
		c.uowFactory.Create().AccountRepository(),
		c.pricing,
		c.inventory,
		c.verifier,
		c.configs.HoldTTL,
		c.configs.StaffEmails,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	// Reads outside the transaction go through an untransacted unit of work.
	readUoW := c.uowFactory.Create()
	return commands.NewUpdateOrderStatusCommandHandler(
		f,
		readUoW.OrderRepository(),
		readUoW.AccountRepository(),
		c.carrier,
		c.fromAddress,
	)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB, c.carrier)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		&c.uowFactory,
		c.mailer,
		c.configs.OutboxMaxAttempts,
		c.configs.OutboxBackoffBase,
		c.inventory,
		c.logger,
	)
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
