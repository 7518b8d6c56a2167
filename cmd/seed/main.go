package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/solidon/donation-backend/internal/config"
	"github.com/solidon/donation-backend/internal/db"
	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

type seedCategory struct {
	Name        string
	Description string
	Children    []string
}

type seedAccount struct {
	Name    string
	Role    model.Role
	Phone   string
	Address string
	Vehicle string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(&model.User{}, &model.Category{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("categories already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nCat, err := seedCategories(tx)
		if err != nil {
			return err
		}
		nAcc, err := seedAccounts(tx)
		if err != nil {
			return err
		}
		log.Printf("seeded %d categories and %d accounts", nCat, nAcc)
		return nil
	})
}

func seedCategories(tx *gorm.DB) (int, error) {
	tree := []seedCategory{
		{Name: "Mobilier", Description: "Meubles et rangements", Children: []string{"Chaises", "Tables", "Bureaux", "Armoires et étagères", "Literie"}},
		{Name: "Électroménager", Description: "Gros et petit électroménager", Children: []string{"Réfrigérateurs", "Lave-linge", "Petit électroménager"}},
		{Name: "Matériel informatique", Description: "Ordinateurs et périphériques", Children: []string{"Ordinateurs", "Écrans", "Imprimantes"}},
		{Name: "Vêtements", Description: "Vêtements et linge de maison", Children: []string{"Vêtements adulte", "Vêtements enfant", "Linge de maison"}},
		{Name: "Vaisselle", Description: "Vaisselle et ustensiles de cuisine"},
		{Name: "Jouets", Description: "Jeux et jouets"},
		{Name: "Livres", Description: "Livres et matériel scolaire"},
		{Name: "Puériculture", Description: "Matériel pour bébés et jeunes enfants"},
		{Name: "Divers", Description: "Tout ce qui n'entre dans aucune autre catégorie"},
	}

	count := 0
	for _, sc := range tree {
		parent := model.Category{Name: sc.Name, Description: sc.Description}
		if err := tx.Create(&parent).Error; err != nil {
			return count, fmt.Errorf("create category %q: %w", sc.Name, err)
		}
		count++
		for _, childName := range sc.Children {
			child := model.Category{Name: childName, ParentID: &parent.ID}
			if err := tx.Create(&child).Error; err != nil {
				return count, fmt.Errorf("create category %q: %w", childName, err)
			}
			count++
		}
	}
	return count, nil
}

func seedAccounts(tx *gorm.DB) (int, error) {
	accounts := []seedAccount{
		{Name: "Amina Benali", Role: model.RoleParticipant, Phone: "06 11 22 33 44", Address: "12 rue de la République, Lyon"},
		{Name: "Yanis Morel", Role: model.RoleParticipant, Phone: "06 55 66 77 88", Address: "4 avenue Berthelot, Lyon"},
		{Name: "Claire Dumont", Role: model.RoleMember, Phone: "04 72 00 00 01"},
		{Name: "Karim Haddad", Role: model.RoleTransporter, Phone: "06 99 88 77 66", Vehicle: "Fourgon 12m3"},
		{Name: "Sophie Leroy", Role: model.RoleTransporter, Phone: "06 12 34 56 78", Vehicle: "Break"},
		{Name: "Admin", Role: model.RoleAdmin},
	}

	for i := range accounts {
		a := accounts[i]
		u := model.User{
			UID:       uuid.NewString(),
			Name:      a.Name,
			Role:      a.Role,
			Phone:     a.Phone,
			Address:   a.Address,
			Vehicle:   a.Vehicle,
			Available: a.Role == model.RoleTransporter,
		}
		if err := tx.Create(&u).Error; err != nil {
			return i, fmt.Errorf("create account %q: %w", a.Name, err)
		}
		log.Printf("account %-12s uid=%s name=%s", a.Role, u.UID, u.Name)
	}
	return len(accounts), nil
}

func shouldSeed(ctx context.Context, gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.WithContext(ctx).Model(&model.Category{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
