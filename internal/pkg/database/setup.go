package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,   // data source name
			DefaultStringSize:         256,   // default size for string fields
			DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.User{},
				&models.Category{},
				&models.Article{},
			)

			seedCategories()

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the shared gorm connection
func GetDB() *gorm.DB {
	return DB
}

// seedCategories creates the default category set on an empty table.
// Existing rows are left untouched.
func seedCategories() {
	var count int64
	if err := DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count categories: %v", err)
		return
	}
	if count > 0 {
		return
	}

	defaults := []models.Category{
		{Name: "Política", Slug: "politica", SortOrder: 1},
		{Name: "Economia", Slug: "economia", SortOrder: 2},
		{Name: "Tecnologia", Slug: "tecnologia", SortOrder: 3},
		{Name: "Esportes", Slug: "esportes", SortOrder: 4},
		{Name: "Cultura", Slug: "cultura", SortOrder: 5},
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("Failed to seed categories: %v", err)
		return
	}
	log.Printf("Seeded %d default categories", len(defaults))
}
