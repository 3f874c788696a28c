package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"checkout/internal/adapters/out/postgres/orderrepo"
	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repository's tracker dependency in tests that
// use the repository without a unit of work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// OrderRepositoryIntegrationTestSuite verifies the order aggregate survives
// a round trip through the orders table, including the jsonb documents for
// line items, the coupon snapshot, the rate quote, the address, and the
// shipment.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{})
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders").Error
	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestAddAndGet_FullOrder persists an order carrying every optional snapshot
// and verifies the restored aggregate matches field by field.
func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_FullOrder() {
	ctx := context.Background()
	original := suite.buildOrder(true, true)

	err := suite.repo.Add(ctx, original)
	suite.Require().NoError(err)

	restored, err := suite.repo.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(original.ID()))
	suite.True(restored.AccountID().IsEqual(original.AccountID()))
	suite.Equal(order.Processing, restored.Status())

	suite.Require().Len(restored.Lines(), 1)
	suite.Equal("Ceramic Teapot", restored.Lines()[0].Name())
	suite.Equal(2, restored.Lines()[0].Quantity())
	suite.True(restored.Lines()[0].UnitPrice().IsEqual(original.Lines()[0].UnitPrice()))

	suite.True(restored.Subtotal().IsEqual(original.Subtotal()))
	suite.True(restored.DiscountAmount().IsEqual(original.DiscountAmount()))
	suite.InDelta(8.0, restored.TaxRate(), 0.0001)
	suite.True(restored.TaxAmount().IsEqual(original.TaxAmount()))
	suite.Equal("us", restored.TaxCountry())
	suite.Equal("ca", restored.TaxState())
	suite.Equal("standard", restored.ShippingMethod())
	suite.True(restored.Total().IsEqual(original.Total()))

	suite.Require().NotNil(restored.AppliedCoupon())
	suite.Equal("SAVE10", restored.AppliedCoupon().Code)
	suite.Equal(coupon.Percentage, restored.AppliedCoupon().Type)
	suite.InDelta(10.0, restored.AppliedCoupon().Amount, 0.0001)

	suite.Require().NotNil(restored.RateQuote())
	suite.Equal("rate_1", restored.RateQuote().RateID)
	suite.Equal("usps", restored.RateQuote().Carrier)
	suite.True(restored.RateQuote().Price.IsEqual(original.RateQuote().Price))

	suite.Require().NotNil(restored.ShippingAddress())
	suite.Equal("Oakland", restored.ShippingAddress().City())
	suite.Equal("US", restored.ShippingAddress().Country())

	suite.Equal(order.MethodStripe, restored.Payment().Method())
	suite.Equal("pi_test_1", restored.Payment().PaymentID())
	suite.True(restored.Payment().IsPaid())
	suite.Equal("visa", restored.Payment().CardBrand())
	suite.Equal("4242", restored.Payment().CardLast4())
}

// TestAddAndGet_MinimalOrder persists an order without coupon, quote,
// address, or shipment and verifies the optional fields restore as nil.
func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_MinimalOrder() {
	ctx := context.Background()
	original := suite.buildOrder(false, false)

	err := suite.repo.Add(ctx, original)
	suite.Require().NoError(err)

	restored, err := suite.repo.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Nil(restored.AppliedCoupon())
	suite.Nil(restored.RateQuote())
	suite.Nil(restored.ShippingAddress())
	suite.Nil(restored.Shipment())
	suite.False(restored.HasShipment())
}

// TestUpdate_ShipOrder transitions a persisted order to shipped and verifies
// the shipment snapshot lands in the jsonb column and restores intact.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ShipOrder() {
	ctx := context.Background()
	original := suite.buildOrder(true, true)

	err := suite.repo.Add(ctx, original)
	suite.Require().NoError(err)

	cost, err := kernel.NewMoney(7.33)
	suite.Require().NoError(err)
	eta := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	shipment, err := order.NewShipment(
		"lbl_1", "shp_1", "9400100000000000000001", "https://tools.usps.com/go/track?9400100000000000000001",
		"usps", "usps_ground_advantage", "https://labels.example.com/lbl_1.pdf",
		cost, &eta, time.Now().UTC().Truncate(time.Second),
	)
	suite.Require().NoError(err)

	err = original.Ship(shipment)
	suite.Require().NoError(err)

	err = suite.repo.Update(ctx, original)
	suite.Require().NoError(err)

	restored, err := suite.repo.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Shipped, restored.Status())
	suite.Require().True(restored.HasShipment())
	suite.Equal("lbl_1", restored.Shipment().LabelID())
	suite.Equal("9400100000000000000001", restored.Shipment().TrackingNumber())
	suite.Equal("usps", restored.Shipment().CarrierCode())
	suite.True(restored.Shipment().Cost().IsEqual(cost))
	suite.Require().NotNil(restored.Shipment().EstimatedDelivery())
	suite.True(restored.Shipment().EstimatedDelivery().Equal(eta))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	missing := suite.buildOrder(false, false)

	err := suite.repo.Update(ctx, missing)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repo.Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

// buildOrder assembles a paid order; withCoupon and withExtras toggle the
// coupon snapshot and the rate quote plus shipping address.
func (suite *OrderRepositoryIntegrationTestSuite) buildOrder(withCoupon, withExtras bool) *order.Order {
	t := suite.T()
	t.Helper()

	unitPrice, err := kernel.NewMoney(25.00)
	suite.Require().NoError(err)
	line, err := order.NewLineItem(kernel.NewUUID(), "Ceramic Teapot", unitPrice, 2)
	suite.Require().NoError(err)

	subtotal, err := kernel.NewMoney(50.00)
	suite.Require().NoError(err)

	var discount kernel.Money
	var applied *order.AppliedCoupon
	if withCoupon {
		discount, err = kernel.NewMoney(5.00)
		suite.Require().NoError(err)
		applied = &order.AppliedCoupon{Code: "SAVE10", Type: coupon.Percentage, Amount: 10}
	}

	tax, err := kernel.NewMoney(3.60)
	suite.Require().NoError(err)

	shipping, err := kernel.NewMoney(5.00)
	suite.Require().NoError(err)

	var quote *order.RateQuote
	var address *kernel.Address
	if withExtras {
		price, priceErr := kernel.NewMoney(5.00)
		suite.Require().NoError(priceErr)
		quote = &order.RateQuote{
			RateID:        "rate_1",
			Carrier:       "usps",
			ServiceCode:   "usps_ground_advantage",
			Price:         price,
			EstimatedDays: 3,
		}
		a, addrErr := kernel.NewAddress("Jamie Doe", "500 Grand Ave", "", "Oakland", "CA", "94610", "US", "")
		suite.Require().NoError(addrErr)
		address = &a
	}

	draft, err := order.NewDraft(
		[]order.LineItem{line},
		subtotal, discount, applied,
		8.0, tax, "us", "ca",
		"standard", shipping, quote,
	)
	suite.Require().NoError(err)

	payment, err := order.NewPayment(order.MethodStripe, "pi_test_1", order.PaymentPaid, "visa", "4242")
	suite.Require().NoError(err)

	built, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), draft, payment, address, time.Now().UTC())
	suite.Require().NoError(err)
	return built
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
