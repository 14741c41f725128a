package models

// OrderPO is the demo_order row.
type OrderPO struct {
	ID                       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Version                  int64  `gorm:"column:version;not null"`
	Status                   int    `gorm:"column:status;not null"`
	CreateTime               int64  `gorm:"column:create_time;autoCreateTime:milli" diff:"-"`
	UpdateTime               int64  `gorm:"column:update_time;autoUpdateTime:milli" diff:"-"`
	ConsigneeName            string `gorm:"column:consignee_name;size:64"`
	ConsigneeShippingAddress string `gorm:"column:consignee_shipping_address;size:255"`
	ConsigneeMobile          string `gorm:"column:consignee_mobile;size:32"`
	TotalMoney               int64  `gorm:"column:total_money"`
	ActualPayMoney           int64  `gorm:"column:actual_pay_money"`
	CouponID                 *int64 `gorm:"column:coupon_id"`
	DeductionPoints          int64  `gorm:"column:deduction_points"`
	OrderSubmitUserID        int64  `gorm:"column:order_submit_user_id;index"`
	IsDelete                 bool   `gorm:"column:is_delete"`
	SellerID                 int64  `gorm:"column:seller_id"`
}

func (OrderPO) TableName() string { return "demo_order" }

func (p *OrderPO) GetID() int64       { return p.ID }
func (p *OrderPO) SetID(id int64)     { p.ID = id }
func (p *OrderPO) GetVersion() int64  { return p.Version }
func (p *OrderPO) SetVersion(v int64) { p.Version = v }

// OrderItemPO is the demo_order_item row.
type OrderItemPO struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID    int64  `gorm:"column:order_id;not null;index"`
	GoodsID    int64  `gorm:"column:goods_id"`
	GoodsName  string `gorm:"column:goods_name;size:128"`
	Amount     int    `gorm:"column:amount"`
	Price      int64  `gorm:"column:price"`
	UpdateTime int64  `gorm:"column:update_time;autoUpdateTime:milli" diff:"-"`
}

func (OrderItemPO) TableName() string { return "demo_order_item" }

func (p *OrderItemPO) GetID() int64   { return p.ID }
func (p *OrderItemPO) SetID(id int64) { p.ID = id }
