package domain

var Tables = []interface{}{
	// System
	&SysAccount{},
	&SysSetting{},
	// Shop
	&ShopItem{},
	&ShopRepair{},
	&ShopCustomer{},
	&ShopSale{},
}
