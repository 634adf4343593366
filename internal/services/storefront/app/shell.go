package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/authgate"
	"github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/nav"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

const shellHelp = `commands:
  login <email>             send a passcode
  otp <code>                verify the passcode
  resend                    send a new passcode
  open <path>               open a storefront path
  home                      product listing
  refresh                   re-open the current page
  search [text]             set the search text
  category [name]           restrict to a category (blank for all)
  categories                list categories
  filter [expression]       filter products, e.g. price < 10 AND stock > 0
  page <n>                  go to a listing page
  list                      show the listing
  product <id>              show a product
  cart                      show the cart
  add <product>             add one unit to the cart
  qty <product> <n>         set a cart quantity (0 removes)
  rm <product>              remove from the cart
  wish [product]            show the wishlist or toggle a product
  orders                    list orders
  cancel <order>            request an order cancellation
  plans                     list plans
  subscribe <price>         start a plan checkout
  unsubscribe <sub> [now]   cancel a subscription
  checkout [COD|CARD name;phone;address;email]
  profile [name;email;phone;gender]
                            show or update the profile
  logout                    sign out
  quit                      leave`

// Shell drives a Storefront from text commands, one line at a time.
type Shell struct {
	store *Storefront
	out   io.Writer
	email string
}

// NewShell builds a shell writing to out.
func NewShell(store *Storefront, out io.Writer) *Shell {
	if out == nil {
		out = io.Discard
	}
	return &Shell{store: store, out: out}
}

// Run reads commands from in until it is exhausted, a quit command arrives
// or ctx is cancelled. Commands run one at a time on the calling goroutine.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	sh.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if !sh.Exec(ctx, line) {
				return nil
			}
			sh.prompt()
		}
	}
}

func (sh *Shell) prompt() {
	if userID := sh.store.UserID(); userID != "" {
		fmt.Fprintf(sh.out, "[%s]> ", userID)
		return
	}
	fmt.Fprint(sh.out, "> ")
}

// Exec runs one command line. It reports false when the shell should stop.
func (sh *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch name {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "login":
		if len(args) != 1 {
			sh.usage("login <email>")
			return true
		}
		sh.email = args[0]
		sh.report(ctx, sh.store.Execute(ctx, SendOTP{Email: sh.email}))
	case "resend":
		sh.report(ctx, sh.store.Execute(ctx, ResendOTP{Email: sh.email}))
	case "otp":
		if len(args) != 1 {
			sh.usage("otp <code>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, VerifyOTP{Email: sh.email, OTP: args[0]}))
	case "open":
		if len(args) != 1 {
			sh.usage("open <path>")
			return true
		}
		sh.open(ctx, args[0])
	case "home":
		sh.openForUser(ctx, routepath.Success)
	case "refresh":
		sh.open(ctx, sh.store.Gate().Current().Path)
	case "search":
		sh.store.Discovery().SetSearchText(rest)
		sh.store.Discovery().FlushSearch()
		sh.renderListing()
	case "category":
		sh.store.Discovery().SetCategory(rest)
		sh.renderListing()
	case "categories":
		for _, category := range sh.store.Catalog().Categories() {
			fmt.Fprintln(sh.out, category)
		}
	case "filter":
		if err := sh.store.Discovery().SetFilter(rest); err != nil {
			fmt.Fprintln(sh.out, sh.store.Describe(err))
			return true
		}
		sh.renderListing()
	case "page":
		page, err := strconv.Atoi(rest)
		if err != nil {
			sh.usage("page <n>")
			return true
		}
		sh.store.Discovery().SetPage(page)
		sh.renderListing()
	case "list":
		sh.renderListing()
	case "product":
		if len(args) != 1 {
			sh.usage("product <id>")
			return true
		}
		sh.openForUser(ctx, func(userID string) string { return routepath.Product(userID, args[0]) })
	case "cart":
		sh.openForUser(ctx, routepath.Cart)
	case "add":
		if len(args) != 1 {
			sh.usage("add <product>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, AddToCart{ProductID: args[0]}))
	case "qty":
		if len(args) != 2 {
			sh.usage("qty <product> <n>")
			return true
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			sh.usage("qty <product> <n>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, SetQuantity{ProductID: args[0], Quantity: quantity}))
	case "rm":
		if len(args) != 1 {
			sh.usage("rm <product>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, RemoveFromCart{ProductID: args[0]}))
	case "wish":
		if len(args) == 0 {
			sh.openForUser(ctx, routepath.Wishlist)
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, ToggleWishlist{ProductID: args[0]}))
	case "orders":
		sh.openForUser(ctx, routepath.Orders)
	case "cancel":
		if len(args) != 1 {
			sh.usage("cancel <order>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, CancelOrder{OrderID: args[0]}))
	case "plans":
		sh.openForUser(ctx, routepath.Plans)
	case "subscribe":
		if len(args) != 1 {
			sh.usage("subscribe <price>")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, Subscribe{PriceID: args[0]}))
	case "unsubscribe":
		if len(args) < 1 || len(args) > 2 {
			sh.usage("unsubscribe <sub> [now]")
			return true
		}
		immediate := len(args) == 2 && strings.EqualFold(args[1], "now")
		sh.report(ctx, sh.store.Execute(ctx, CancelSubscription{SubscriptionID: args[0], Immediate: immediate}))
	case "checkout":
		if len(args) == 0 {
			sh.openForUser(ctx, routepath.CreateOrder)
			return true
		}
		cmd, ok := parseCheckout(rest)
		if !ok {
			sh.usage("checkout COD|CARD name;phone;address;email")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, cmd))
	case "profile":
		if rest == "" {
			sh.showProfile(ctx)
			return true
		}
		parts := strings.Split(rest, ";")
		if len(parts) != 4 {
			sh.usage("profile [name;email;phone;gender]")
			return true
		}
		sh.report(ctx, sh.store.Execute(ctx, UpdateProfile{Profile: domain.Profile{
			Name:   strings.TrimSpace(parts[0]),
			Email:  strings.TrimSpace(parts[1]),
			Phone:  strings.TrimSpace(parts[2]),
			Gender: strings.TrimSpace(parts[3]),
		}}))
	case "logout":
		sh.report(ctx, sh.store.Execute(ctx, Logout{}))
	default:
		fmt.Fprintf(sh.out, "unknown command %q, try help\n", name)
	}
	return true
}

func parseCheckout(rest string) (PlaceOrder, bool) {
	method, details, ok := strings.Cut(strings.TrimSpace(rest), " ")
	if !ok {
		return PlaceOrder{}, false
	}
	parts := strings.Split(details, ";")
	if len(parts) != 4 {
		return PlaceOrder{}, false
	}
	return PlaceOrder{
		Method: domain.PaymentMethod(strings.ToUpper(method)),
		Form: domain.OrderForm{
			Name:            parts[0],
			Phone:           parts[1],
			ShippingAddress: parts[2],
			Email:           parts[3],
		},
	}, true
}

func (sh *Shell) usage(text string) {
	fmt.Fprintf(sh.out, "usage: %s\n", text)
}

func (sh *Shell) report(ctx context.Context, result Result) {
	if result.Notice != "" {
		fmt.Fprintln(sh.out, result.Notice)
	}
	sh.follow(ctx, result.Intent)
}

func (sh *Shell) follow(ctx context.Context, intent nav.Intent) {
	switch intent.Kind {
	case nav.KindRedirect:
		if intent.External() {
			fmt.Fprintf(sh.out, "continue in your browser: %s\n", intent.Target)
			return
		}
		sh.open(ctx, intent.Target)
	case nav.KindRender:
		sh.render(ctx, intent)
	case nav.KindPlaceholder:
		fmt.Fprintln(sh.out, "Loading...")
	}
}

func (sh *Shell) openForUser(ctx context.Context, build func(userID string) string) {
	userID := sh.store.UserID()
	if userID == "" {
		sh.open(ctx, routepath.Root)
		return
	}
	sh.open(ctx, build(userID))
}

func (sh *Shell) open(ctx context.Context, path string) {
	decision := sh.store.Navigate(ctx, path)
	if decision.Superseded {
		return
	}
	if decision.State == authgate.StateUnauthorized && decision.Err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(decision.Err))
	}
	if decision.Intent.Kind == nav.KindRedirect && decision.Intent.Target == path {
		return
	}
	sh.follow(ctx, decision.Intent)
}

func (sh *Shell) render(ctx context.Context, intent nav.Intent) {
	switch intent.View {
	case routepath.ViewLogin:
		fmt.Fprintln(sh.out, "Sign in with: login <email>")
	case routepath.ViewSuccess:
		sh.renderListing()
	case routepath.ViewProduct:
		sh.renderProduct(ctx, intent.Params["id"])
	case routepath.ViewCart:
		sh.renderCart(ctx)
	case routepath.ViewWishlist:
		sh.renderWishlist(ctx)
	case routepath.ViewOrders:
		sh.renderOrders(ctx)
	case routepath.ViewCreateOrder:
		sh.renderOrderSummary(ctx)
	case routepath.ViewOrderSuccess:
		fmt.Fprintln(sh.out, "Thank you! Your order has been placed.")
	case routepath.ViewPlans:
		sh.renderPlans(ctx)
	default:
		fmt.Fprintln(sh.out, "Page not found")
	}
}

func (sh *Shell) renderListing() {
	catalog := sh.store.Catalog()
	if catalog.Loading() {
		fmt.Fprintln(sh.out, "Loading...")
		return
	}
	if err := catalog.Err(); err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	view, err := sh.store.Discovery().View()
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	if view.TotalMatches == 0 {
		fmt.Fprintln(sh.out, "No products found")
		return
	}
	wishlist := sh.store.Wishlist()
	for _, product := range view.Items {
		marker := " "
		if wishlist.Contains(product.ID) {
			marker = "*"
		}
		stock := "in stock"
		if !product.InStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(sh.out, "%s %s  %s  [%s]  %s  %s\n", marker, product.ID, product.Name, product.Category, sh.store.FormatPrice(product.Price), stock)
	}
	fmt.Fprintf(sh.out, "page %d of %d (%d products)\n", view.CurrentPage, view.TotalPages, view.TotalMatches)
}

func (sh *Shell) renderProduct(ctx context.Context, productID string) {
	product, err := sh.store.Catalog().Product(ctx, productID)
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	fmt.Fprintf(sh.out, "%s (%s)\n%s\n%s, %d in stock\n", product.Name, product.Category, product.Description, sh.store.FormatPrice(product.Price), product.Stock)
	for _, image := range product.GalleryImages() {
		fmt.Fprintf(sh.out, "  image: %s\n", image)
	}
}

func (sh *Shell) renderCart(ctx context.Context) {
	snapshot, err := sh.store.Cart().Fetch(ctx)
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
	}
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(sh.out, "Your cart is empty")
		return
	}
	for _, item := range snapshot.Items {
		line := fmt.Sprintf("%s  %s  %d × %s = %s", item.ProductID, item.Name, item.Quantity, sh.store.FormatPrice(item.Price), sh.store.FormatPrice(item.Subtotal()))
		if item.Stock <= 0 {
			line += "  (out of stock)"
		}
		fmt.Fprintln(sh.out, line)
	}
	fmt.Fprintf(sh.out, "%d items, total %s\n", sh.store.Cart().Count(), sh.store.FormatPrice(sh.store.Cart().Total()))
}

func (sh *Shell) renderWishlist(ctx context.Context) {
	snapshot, err := sh.store.Wishlist().Fetch(ctx)
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
	}
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(sh.out, "Your wishlist is empty")
		return
	}
	for _, item := range snapshot.Items {
		fmt.Fprintf(sh.out, "%s  %s  %s\n", item.ProductID, item.Name, sh.store.FormatPrice(item.Price))
	}
}

func (sh *Shell) renderOrders(ctx context.Context) {
	orders, err := sh.store.Checkout().Orders(ctx, sh.store.UserID())
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(sh.out, "No orders yet")
		return
	}
	for _, order := range orders {
		line := fmt.Sprintf("%s  %s  %s  %s", order.ID, order.DeliveryStatus, order.PaymentMethod, sh.store.FormatPrice(order.TotalAmount))
		if order.CancelRequestStatus != "" {
			line += "  cancel: " + order.CancelRequestStatus
		} else if order.Cancellable() {
			line += "  (cancellable)"
		}
		fmt.Fprintln(sh.out, line)
	}
}

func (sh *Shell) renderOrderSummary(ctx context.Context) {
	summary, err := sh.store.Checkout().OrderSummary(ctx, sh.store.UserID())
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	fmt.Fprintf(sh.out, "Subtotal: %s\nDelivery Fee: %s\nDiscount: %s\nPayable Amount: %s\n",
		sh.store.FormatPrice(summary.TotalAmount),
		sh.store.FormatPrice(summary.DeliveryFee),
		sh.store.FormatPrice(summary.Discount),
		sh.store.FormatPrice(summary.PayableAmount),
	)
	fmt.Fprintln(sh.out, "Place the order with: checkout COD|CARD name;phone;address;email")
}

func (sh *Shell) renderPlans(ctx context.Context) {
	plans, err := sh.store.Checkout().Plans(ctx, sh.store.UserID())
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	fmt.Fprintf(sh.out, "current tier: %s\n", checkout.ActiveTier(plans))
	for _, plan := range plans {
		line := fmt.Sprintf("%s  %s  price %s", plan.Name, sh.store.FormatPrice(plan.Price), plan.PriceID)
		if plan.Active() {
			line += "  active, subscription " + plan.SubscriptionID
		}
		fmt.Fprintln(sh.out, line)
	}
}

func (sh *Shell) showProfile(ctx context.Context) {
	userID := sh.store.UserID()
	if userID == "" {
		sh.open(ctx, routepath.Root)
		return
	}
	profile, err := sh.store.Account().Profile(ctx, userID)
	if err != nil {
		fmt.Fprintln(sh.out, sh.store.Describe(err))
		return
	}
	fmt.Fprintf(sh.out, "name: %s\nemail: %s\nphone: %s\ngender: %s\n", profile.Name, profile.Email, profile.Phone, profile.Gender)
}
