package basket

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailnet/backend/pkg/db/models"
)

// ItemInput is one requested basket line.
type ItemInput struct {
	ProductInfo uint `json:"product_info" validate:"required"`
	Quantity    int  `json:"quantity" validate:"required,gt=0"`
}

// BasketView is the payload for GET basket. An empty basket renders with zero
// items and a zero total rather than an error.
type BasketView struct {
	ID       uint             `json:"id,omitempty"`
	Items    []BasketItemView `json:"items"`
	TotalSum decimal.Decimal  `json:"total_sum"`
}

// BasketItemView renders one basket line with its listing context.
type BasketItemView struct {
	ID          uint            `json:"id"`
	Quantity    int             `json:"quantity"`
	Sum         decimal.Decimal `json:"sum"`
	ProductInfo ListingView     `json:"product_info"`
}

// ListingView is the product_info snapshot inside basket and order payloads.
type ListingView struct {
	ID         uint            `json:"id"`
	Model      string          `json:"model"`
	Product    string          `json:"product"`
	Category   string          `json:"category,omitempty"`
	Shop       string          `json:"shop,omitempty"`
	Price      decimal.Decimal `json:"price"`
	PriceRRC   decimal.Decimal `json:"price_rrc"`
	Quantity   int             `json:"quantity"`
	Parameters map[string]any  `json:"parameters,omitempty"`
}

// OrderView is one placed order in the history payload.
type OrderView struct {
	ID        uint             `json:"id"`
	State     string           `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	TotalSum  decimal.Decimal  `json:"total_sum"`
	Contact   *models.Contact  `json:"contact,omitempty"`
	Items     []BasketItemView `json:"items"`
}

func listingView(info *models.ProductInfo) ListingView {
	view := ListingView{}
	if info == nil {
		return view
	}
	view.ID = info.ID
	view.Model = info.Model
	view.Price = info.Price
	view.PriceRRC = info.PriceRRC
	view.Quantity = info.Quantity
	if info.Product != nil {
		view.Product = info.Product.Name
		if info.Product.Category != nil {
			view.Category = info.Product.Category.Name
		}
	}
	if info.Shop != nil {
		view.Shop = info.Shop.Name
	}
	if len(info.ProductParameters) > 0 {
		params := make(map[string]any, len(info.ProductParameters))
		for _, pp := range info.ProductParameters {
			if pp.Parameter != nil {
				params[pp.Parameter.Name] = pp.Value
			}
		}
		view.Parameters = params
	}
	return view
}

func itemView(item models.OrderItem) BasketItemView {
	view := BasketItemView{
		ID:       item.ID,
		Quantity: item.Quantity,
	}
	view.ProductInfo = listingView(item.ProductInfo)
	if item.ProductInfo != nil {
		view.Sum = item.ProductInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return view
}

func basketView(order *models.Order) *BasketView {
	view := &BasketView{Items: []BasketItemView{}, TotalSum: decimal.Zero}
	if order == nil {
		return view
	}
	view.ID = order.ID
	for _, item := range order.Items {
		iv := itemView(item)
		view.Items = append(view.Items, iv)
		view.TotalSum = view.TotalSum.Add(iv.Sum)
	}
	return view
}

func orderView(order models.Order) OrderView {
	view := OrderView{
		ID:        order.ID,
		State:     order.State.String(),
		CreatedAt: order.CreatedAt,
		Contact:   order.Contact,
		TotalSum:  decimal.Zero,
		Items:     []BasketItemView{},
	}
	for _, item := range order.Items {
		iv := itemView(item)
		view.Items = append(view.Items, iv)
		view.TotalSum = view.TotalSum.Add(iv.Sum)
	}
	return view
}
