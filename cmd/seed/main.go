package main

import (
	"log"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/logger"
	"github.com/lumishop/lumishop/internal/models"

	"github.com/shopspring/decimal"
)

// 开发环境演示数据：分类与商品，含一个缺货商品用于演示到货订阅
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	categoryIDs := seedCategories(stdLog)
	seedProducts(stdLog, categoryIDs)
	stdLog.Println("Seed finished")
}

// localized 三语文案打包成 JSON 字段
func localized(zhCN, zhTW, enUS string) models.JSON {
	return models.JSON(map[string]any{
		"zh-CN": zhCN,
		"zh-TW": zhTW,
		"en-US": enUS,
	})
}

func seedCategories(stdLog *log.Logger) map[string]uint {
	categories := []models.Category{
		{Slug: "electronics", NameJSON: localized("数码产品", "數碼產品", "Electronics")},
		{Slug: "lifestyle", NameJSON: localized("生活用品", "生活用品", "Lifestyle")},
	}

	slugs := make([]string, 0, len(categories))
	for _, cat := range categories {
		slugs = append(slugs, cat.Slug)
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("Created category: %s", cat.Slug)
	}

	var created []models.Category
	if err := models.DB.Where("slug IN ?", slugs).Find(&created).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	ids := make(map[string]uint, len(created))
	for _, cat := range created {
		ids[cat.Slug] = cat.ID
	}
	return ids
}

func seedProducts(stdLog *log.Logger, categoryIDs map[string]uint) {
	products := []models.Product{
		{
			Slug:      "wireless-earphones",
			TitleJSON: localized("无线蓝牙耳机", "無線藍牙耳機", "Wireless Bluetooth Earphones"),
			DescriptionJSON: localized(
				"高品质音质，长续航，舒适佩戴",
				"高品質音質，長續航，舒適佩戴",
				"High quality sound, long battery life, comfortable to wear",
			),
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			CategoryID:   categoryIDs["electronics"],
			Images:       models.StringArray([]string{"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800"}),
			Tags:         models.StringArray([]string{"Audio", "Wireless"}),
			CountInStock: 50,
			IsActive:     true,
		},
		{
			Slug:      "smart-watch",
			TitleJSON: localized("智能手表", "智能手錶", "Smart Watch"),
			DescriptionJSON: localized(
				"健康监测，运动追踪，消息提醒",
				"健康監測，運動追蹤，消息提醒",
				"Health monitoring, fitness tracking, message notifications",
			),
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			CategoryID:   categoryIDs["electronics"],
			Images:       models.StringArray([]string{"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800"}),
			Tags:         models.StringArray([]string{"Wearable", "Health"}),
			CountInStock: 20,
			IsActive:     true,
		},
		{
			// 缺货商品，用来演示到货订阅与派发
			Slug:      "backpack",
			TitleJSON: localized("多功能背包", "多功能背包", "Multi-function Backpack"),
			DescriptionJSON: localized(
				"大容量，防水防盗，USB充电接口",
				"大容量，防水防盜，USB充電接口",
				"Large capacity, waterproof and anti-theft, USB charging port",
			),
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			CategoryID:   categoryIDs["lifestyle"],
			Images:       models.StringArray([]string{"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800"}),
			Tags:         models.StringArray([]string{"Bag", "Travel"}),
			CountInStock: 0,
			IsActive:     true,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.Slug)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Slug)
	}
}
