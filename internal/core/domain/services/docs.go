// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the checkout pipeline. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - CouponEvaluator: resolves a coupon code against the priced cart
//   - TaxResolver: finds the tax rate for a shipping destination
//   - PricingService: assembles the complete order draft for a checkout
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
