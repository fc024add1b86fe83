package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"github.com/wisharea/storefront/pkg/actor"
	"github.com/wisharea/storefront/pkg/cart"
	"go.uber.org/zap"
)

type checkoutTestContext struct {
	cart      *cart.Store
	flow      *Flow
	processor *actor.Processor
	err       error
	orderIDs  []string
	last      *Confirmation
}

func (c *checkoutTestContext) reset() error {
	proc, err := actor.NewProcessor(zap.NewNop(), 0, time.Second)
	if err != nil {
		return err
	}
	c.processor = proc
	c.cart = cart.NewStore(context.Background(), nil)
	c.flow = New(c.cart, proc)
	c.err = nil
	c.orderIDs = nil
	c.last = nil
	return nil
}

func (c *checkoutTestContext) anEmptyCart() error {
	if !c.cart.IsEmpty() {
		return errors.New("cart is not empty")
	}
	return nil
}

func (c *checkoutTestContext) theCartHolds(qty int, id, price string) error {
	return c.cart.AddItem(context.Background(), product(id, price), qty)
}

func (c *checkoutTestContext) iStartCheckout() error {
	c.err = c.flow.Start()
	return nil
}

func (c *checkoutTestContext) iGoToTheNextStep() error {
	_, c.err = c.flow.Next()
	return nil
}

func (c *checkoutTestContext) iGoBack() error {
	_, c.err = c.flow.Back()
	return nil
}

func (c *checkoutTestContext) iEnterValidContactInformation() error {
	c.err = c.flow.SetInformation(validInfo())
	return nil
}

func (c *checkoutTestContext) iChooseShipping(method string) error {
	c.err = c.flow.SetShippingMethod(ShippingMethod(method))
	return nil
}

func (c *checkoutTestContext) iPlaceTheOrder() error {
	conf, err := c.flow.PlaceOrder(context.Background())
	c.err = err
	if conf != nil {
		c.last = conf
		c.orderIDs = append(c.orderIDs, conf.OrderID)
	}
	return nil
}

func (c *checkoutTestContext) iCompleteCheckout() error {
	if err := c.flow.Start(); err != nil {
		return err
	}
	if err := c.flow.SetInformation(validInfo()); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := c.flow.Next(); err != nil {
			return err
		}
	}
	if err := c.iPlaceTheOrder(); err != nil {
		return err
	}
	return c.err
}

func (c *checkoutTestContext) checkoutFailsWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected error %q, got none", message)
	}
	if c.err.Error() != message {
		return fmt.Errorf("expected error %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *checkoutTestContext) theStepIs(step string) error {
	if got := c.flow.Step(); got != Step(step) {
		return fmt.Errorf("expected step %q, got %q", step, got)
	}
	return nil
}

func (c *checkoutTestContext) theCartHoldsItems(n int) error {
	if got := c.cart.ItemCount(); got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsConfirmedWithTotal(total string) error {
	if c.err != nil {
		return fmt.Errorf("order failed: %w", c.err)
	}
	if c.last == nil {
		return errors.New("no confirmation")
	}
	want := decimal.RequireFromString(total)
	if !c.last.Total.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, c.last.Total)
	}
	return nil
}

func (c *checkoutTestContext) theTwoOrderIDsDiffer() error {
	if len(c.orderIDs) != 2 {
		return fmt.Errorf("expected 2 orders, got %d", len(c.orderIDs))
	}
	if c.orderIDs[0] == c.orderIDs[1] {
		return fmt.Errorf("order id %s was reused", c.orderIDs[0])
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.processor != nil {
			tc.processor.Close()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the cart holds (\d+) of "([^"]*)" at (\S+?)(?: again)?$`, tc.theCartHolds)

	// When steps
	ctx.Step(`^I start checkout$`, tc.iStartCheckout)
	ctx.Step(`^I go to the next step$`, tc.iGoToTheNextStep)
	ctx.Step(`^I go back$`, tc.iGoBack)
	ctx.Step(`^I enter valid contact information$`, tc.iEnterValidContactInformation)
	ctx.Step(`^I choose "([^"]*)" shipping$`, tc.iChooseShipping)
	ctx.Step(`^I place the order$`, tc.iPlaceTheOrder)
	ctx.Step(`^I complete checkout$`, tc.iCompleteCheckout)

	// Then steps
	ctx.Step(`^checkout fails with "([^"]*)"$`, tc.checkoutFailsWith)
	ctx.Step(`^the step is "([^"]*)"$`, tc.theStepIs)
	ctx.Step(`^the cart holds (\d+) items$`, tc.theCartHoldsItems)
	ctx.Step(`^the order is confirmed with total "([^"]*)"$`, tc.theOrderIsConfirmedWithTotal)
	ctx.Step(`^the two order ids differ$`, tc.theTwoOrderIDsDiffer)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
