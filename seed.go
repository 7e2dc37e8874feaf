package main

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/services"
)

func intPtr(v int) *int { return &v }

// seedDatabase creates the built-in staff accounts and the base catalog when
// they are missing. Safe to run on every startup.
func seedDatabase(db *gorm.DB) error {
	staff := []struct {
		username string
		email    string
		password string
		role     models.Role
		fullName string
	}{
		{"admin", "admin@photolab.com", "admin123", models.RoleAdmin, "System Administrator"},
		{"employee", "employee@photolab.com", "emp123", models.RoleEmployee, "Lab Employee"},
	}

	for _, s := range staff {
		var existing models.User
		err := db.Where("username = ?", s.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up %s account: %w", s.username, err)
		}

		hash, err := services.HashPassword(s.password)
		if err != nil {
			return fmt.Errorf("failed to hash %s password: %w", s.username, err)
		}
		user := models.User{
			Username:     s.username,
			Email:        s.email,
			PasswordHash: hash,
			Role:         s.role,
			FullName:     s.fullName,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create %s account: %w", s.username, err)
		}
	}

	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if count > 0 {
		return nil
	}

	catalog := []models.Service{
		{Name: "Photo print 10x15", Description: "Standard prints on glossy paper", Price: 15.0, ProcessingTime: intPtr(2), IsActive: true, Category: "printing"},
		{Name: "Photo print 15x20", Description: "Enlarged photo prints", Price: 25.0, ProcessingTime: intPtr(3), IsActive: true, Category: "printing"},
		{Name: "Photo print 20x30", Description: "Large high-quality prints", Price: 45.0, ProcessingTime: intPtr(4), IsActive: true, Category: "printing"},
		{Name: "Photo retouching", Description: "Professional image retouching", Price: 200.0, ProcessingTime: intPtr(24), IsActive: true, Category: "editing"},
		{Name: "Old photo restoration", Description: "Restoration of damaged photographs", Price: 500.0, ProcessingTime: intPtr(48), IsActive: true, Category: "restoration"},
		{Name: "Photo book", Description: "Personalized photo book", Price: 800.0, ProcessingTime: intPtr(72), IsActive: true, Category: "products"},
		{Name: "Canvas print", Description: "Prints on artist canvas", Price: 150.0, ProcessingTime: intPtr(6), IsActive: true, Category: "printing"},
		{Name: "Color correction", Description: "Professional color correction", Price: 100.0, ProcessingTime: intPtr(12), IsActive: true, Category: "editing"},
	}
	for i := range catalog {
		if err := db.Create(&catalog[i]).Error; err != nil {
			return fmt.Errorf("failed to seed service %q: %w", catalog[i].Name, err)
		}
	}

	return nil
}
