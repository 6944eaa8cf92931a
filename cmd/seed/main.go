package main

import (
	"fmt"

	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "electronics", Name: "电子产品", SortOrder: 100},
		{Slug: "accessories", Name: "数码配件", SortOrder: 90},
		{Slug: "lifestyle", Name: "生活用品", SortOrder: 80},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"electronics", "accessories", "lifestyle"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	electronicsID := categoryIDs["electronics"]
	accessoriesID := categoryIDs["accessories"]
	lifestyleID := categoryIDs["lifestyle"]

	// 添加仓库与库区
	warehouses := []models.Warehouse{
		{Code: "WH-EAST", Name: "华东中心仓", Address: "上海市青浦区华徐公路 888 号", City: "上海", IsActive: true},
		{Code: "WH-SOUTH", Name: "华南分仓", Address: "广州市白云区机场路 66 号", City: "广州", IsActive: true},
	}
	for _, wh := range warehouses {
		var existing models.Warehouse
		if err := models.DB.Where("code = ?", wh.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&wh).Error; err != nil {
				stdLog.Printf("Failed to create warehouse %s: %v", wh.Code, err)
				continue
			}
			stdLog.Printf("Created warehouse: %s", wh.Code)
			zones := []models.Zone{
				{WarehouseID: wh.ID, Code: "A", Name: "常温区"},
				{WarehouseID: wh.ID, Code: "B", Name: "高值区"},
			}
			for _, zone := range zones {
				if err := models.DB.Create(&zone).Error; err != nil {
					stdLog.Printf("Failed to create zone %s/%s: %v", wh.Code, zone.Code, err)
				}
			}
		} else {
			stdLog.Printf("Warehouse already exists: %s", wh.Code)
		}
	}

	// 添加商品
	products := []models.Product{
		{
			SKU:         "SKU-EARPHONE-001",
			Name:        "无线蓝牙耳机",
			Description: "蓝牙 5.0，主动降噪，续航 24 小时",
			CategoryID:  &electronicsID,
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			CostPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(62.00)),
			Tags:        models.StringArray([]string{"Audio", "Wireless"}),
			IsActive:    true,
			LowStock:    20,
		},
		{
			SKU:         "SKU-WATCH-001",
			Name:        "智能手表",
			Description: "心率监测，多运动模式，防水",
			CategoryID:  &electronicsID,
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			CostPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(128.00)),
			Tags:        models.StringArray([]string{"Wearable", "Smart"}),
			IsActive:    true,
			LowStock:    15,
		},
		{
			SKU:         "SKU-POWERBANK-001",
			Name:        "便携充电宝",
			Description: "20000mAh，双向快充",
			CategoryID:  &accessoriesID,
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			CostPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(28.50)),
			Tags:        models.StringArray([]string{"Charger", "Portable"}),
			IsActive:    true,
			LowStock:    30,
		},
		{
			SKU:         "SKU-BACKPACK-001",
			Name:        "多功能背包",
			Description: "防水防盗，USB 充电接口",
			CategoryID:  &lifestyleID,
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			CostPrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(41.00)),
			Tags:        models.StringArray([]string{"Bag", "Travel"}),
			IsActive:    true,
			LowStock:    10,
		},
	}
	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("sku = ?", prod.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.SKU, err)
			} else {
				stdLog.Printf("Created product: %s", prod.SKU)
			}
		} else {
			stdLog.Printf("Product already exists: %s", prod.SKU)
		}
	}

	// 初始库存（商品 × 仓库）
	inventoryPlans := []struct {
		SKU      string
		Code     string
		Quantity int
	}{
		{SKU: "SKU-EARPHONE-001", Code: "WH-EAST", Quantity: 120},
		{SKU: "SKU-EARPHONE-001", Code: "WH-SOUTH", Quantity: 40},
		{SKU: "SKU-WATCH-001", Code: "WH-EAST", Quantity: 60},
		{SKU: "SKU-POWERBANK-001", Code: "WH-EAST", Quantity: 12},
		{SKU: "SKU-BACKPACK-001", Code: "WH-SOUTH", Quantity: 5},
	}
	for _, plan := range inventoryPlans {
		var product models.Product
		if err := models.DB.Where("sku = ?", plan.SKU).First(&product).Error; err != nil {
			stdLog.Printf("Skip inventory seed for %s: product not found", plan.SKU)
			continue
		}
		var warehouse models.Warehouse
		if err := models.DB.Where("code = ?", plan.Code).First(&warehouse).Error; err != nil {
			stdLog.Printf("Skip inventory seed for %s: warehouse %s not found", plan.SKU, plan.Code)
			continue
		}
		var existing models.Inventory
		if err := models.DB.Where("product_id = ? AND warehouse_id = ?", product.ID, warehouse.ID).First(&existing).Error; err != nil {
			row := models.Inventory{ProductID: product.ID, WarehouseID: warehouse.ID, Quantity: plan.Quantity}
			if err := models.DB.Create(&row).Error; err != nil {
				stdLog.Printf("Failed to create inventory %s/%s: %v", plan.SKU, plan.Code, err)
			} else {
				stdLog.Printf("Seeded inventory: %s @ %s = %d", plan.SKU, plan.Code, plan.Quantity)
			}
		} else {
			existing.Quantity = plan.Quantity
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update inventory %s/%s: %v", plan.SKU, plan.Code, err)
			} else {
				stdLog.Printf("Updated inventory: %s @ %s = %d", plan.SKU, plan.Code, plan.Quantity)
			}
		}
	}

	// 添加客户
	customers := []models.Customer{
		{Name: "启明贸易", Email: "purchase@qiming-trade.example", Phone: "+86-21-5550-1001", Address: "上海市静安区南京西路 1266 号", City: "上海", Country: "CN", IsActive: true},
		{Name: "南风电子", Email: "ops@nanfeng-elec.example", Phone: "+86-20-5550-2002", Address: "广州市天河区体育西路 103 号", City: "广州", Country: "CN", IsActive: true},
	}
	for _, customer := range customers {
		var existing models.Customer
		if err := models.DB.Where("email = ?", customer.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Email, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Name)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Name)
		}
	}

	// 添加供应商
	suppliers := []models.Supplier{
		{Name: "深圳声学科技", Email: "sales@sz-acoustic.example", Phone: "+86-755-5550-3003", Address: "深圳市南山区科技园南区", ContactName: "陈工", IsActive: true},
		{Name: "东莞精工制造", Email: "trade@dg-precision.example", Phone: "+86-769-5550-4004", Address: "东莞市松山湖高新区", ContactName: "林经理", IsActive: true},
	}
	for _, supplier := range suppliers {
		var existing models.Supplier
		if err := models.DB.Where("name = ?", supplier.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&supplier).Error; err != nil {
				stdLog.Printf("Failed to create supplier %s: %v", supplier.Name, err)
			} else {
				stdLog.Printf("Created supplier: %s", supplier.Name)
			}
		} else {
			stdLog.Printf("Supplier already exists: %s", supplier.Name)
		}
	}

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 4 Products")
	fmt.Println("- 2 Warehouses with zones")
	fmt.Println("- 5 Inventory rows")
	fmt.Println("- 2 Customers")
	fmt.Println("- 2 Suppliers")
}
