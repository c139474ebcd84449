package database

import (
	"saletech/helper"
	"saletech/logger"
	"saletech/model"

	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	password, err := helper.HashPassword("123456sale")
	if err != nil {
		logger.Error("failed to hash seed password", "error", err)
		return
	}
	users := []model.User{
		{Username: "demo", Email: "demo@saletech.vn", Password: password, FullName: "Demo Customer", IsActive: true},
	}
	for _, user := range users {
		// create only if missing
		if err := db.Where(model.User{Username: user.Username}).FirstOrCreate(&user).Error; err != nil {
			logger.Error("failed to seed user", "username", user.Username, "error", err)
		}
	}

	products := []model.Product{
		{Title: "Laptop Dell Inspiron 15 3520", Category: "Laptop", Price: 15490000, Quantity: 20, IsActive: true},
		{Title: "Laptop Asus Vivobook 14 OLED", Category: "Laptop", Price: 17990000, Quantity: 15, IsActive: true},
		{Title: "MacBook Air M2 13 inch", Category: "Laptop", Price: 24990000, Quantity: 10, IsActive: true},
		{Title: "Chuột Logitech MX Master 3S", Category: "Phụ kiện", Price: 2490000, Quantity: 50, IsActive: true},
		{Title: "Bàn phím cơ Keychron K2", Category: "Phụ kiện", Price: 1990000, Quantity: 40, IsActive: true},
		{Title: "Tai nghe Sony WH-1000XM5", Category: "Âm thanh", Price: 7490000, Quantity: 25, IsActive: true},
		{Title: "Cáp USB-C Anker 1m", Category: "Phụ kiện", Price: 190000, Quantity: 200, IsActive: true},
		{Title: "Màn hình LG 27 inch 4K", Category: "Màn hình", Price: 8990000, Quantity: 0, IsActive: true},
	}
	for _, product := range products {
		if err := db.Where(model.Product{Title: product.Title}).FirstOrCreate(&product).Error; err != nil {
			logger.Error("failed to seed product", "title", product.Title, "error", err)
		}
	}
	logger.Info("seed data applied", "users", len(users), "products", len(products))
}
