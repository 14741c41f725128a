package order

import "aggregate-persistence/feature/order/models"

func toOrderPO(o *models.Order) *models.OrderPO {
	return &models.OrderPO{
		ID:                       o.ID,
		Version:                  o.Version,
		Status:                   int(o.Status),
		ConsigneeName:            o.Consignee.Name,
		ConsigneeShippingAddress: o.Consignee.ShippingAddress,
		ConsigneeMobile:          o.Consignee.Mobile,
		TotalMoney:               o.TotalMoney,
		ActualPayMoney:           o.ActualPayMoney,
		CouponID:                 o.CouponID,
		DeductionPoints:          o.DeductionPoints,
		OrderSubmitUserID:        o.SubmitUserID,
		IsDelete:                 o.Deleted,
		SellerID:                 o.SellerID,
	}
}

func toOrderItemPO(it *models.OrderItem) *models.OrderItemPO {
	return &models.OrderItemPO{
		ID:        it.ID,
		OrderID:   it.OrderID,
		GoodsID:   it.GoodsID,
		GoodsName: it.GoodsName,
		Amount:    it.Amount,
		Price:     it.Price,
	}
}

func fromPO(po *models.OrderPO, items []models.OrderItemPO) *models.Order {
	o := &models.Order{
		ID:     po.ID,
		Status: models.Status(po.Status),
		Consignee: models.Consignee{
			Name:            po.ConsigneeName,
			Mobile:          po.ConsigneeMobile,
			ShippingAddress: po.ConsigneeShippingAddress,
		},
		Items:           make([]*models.OrderItem, 0, len(items)),
		TotalMoney:      po.TotalMoney,
		ActualPayMoney:  po.ActualPayMoney,
		Version:         po.Version,
		CouponID:        po.CouponID,
		DeductionPoints: po.DeductionPoints,
		SubmitUserID:    po.OrderSubmitUserID,
		Deleted:         po.IsDelete,
		SellerID:        po.SellerID,
	}
	for _, it := range items {
		o.Items = append(o.Items, &models.OrderItem{
			ID:        it.ID,
			OrderID:   it.OrderID,
			GoodsID:   it.GoodsID,
			GoodsName: it.GoodsName,
			Amount:    it.Amount,
			Price:     it.Price,
		})
	}
	return o
}
