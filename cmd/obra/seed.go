package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rfconstrucoes/obra/internal/config"
	"github.com/rfconstrucoes/obra/internal/store"
	"github.com/rfconstrucoes/obra/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample portfolio content",
	Long:  "Inserts sample projects and pre-approved reviews so a fresh install has content to show.",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	for _, p := range seedProjects() {
		if _, err := db.InsertProject(ctx, p); err != nil {
			return fmt.Errorf("seed project %q: %w", p.Title, err)
		}
	}

	for _, r := range seedReviews() {
		if _, err := db.InsertReview(ctx, r); err != nil {
			return fmt.Errorf("seed review from %q: %w", r.ClientName, err)
		}
	}

	fmt.Println("sample content loaded")
	return nil
}

func seedProjects() []types.Project {
	return []types.Project{
		{
			Title:          "Renovação Apartamento Centro",
			Description:    "Reforma completa de apartamento de 120m², incluindo demolição de paredes, novo piso e iluminação moderna.",
			Category:       types.CategoryResidential,
			Status:         types.StatusCompleted,
			ImageURL:       "https://images.unsplash.com/photo-1600585154340-be6161a56a0c?q=80&w=800",
			Progress:       100,
			CompletionDate: "2023-11-15",
		},
		{
			Title:          "Cozinha Gourmet Moderna",
			Description:    "Instalação de ilha central em mármore, armários planejados e eletrodomésticos embutidos.",
			Category:       types.CategoryKitchen,
			Status:         types.StatusCompleted,
			ImageURL:       "https://images.unsplash.com/photo-1556911220-e15b29be8c8f?q=80&w=800",
			Progress:       100,
			CompletionDate: "2024-01-20",
		},
		{
			Title:          "Reabilitação Moradia Cascais",
			Description:    "Reestruturação total de moradia unifamiliar: novas redes de águas, eletricidade e reforço estrutural de lajes.",
			Category:       types.CategoryResidential,
			Status:         types.StatusInProgress,
			ImageURL:       "https://images.unsplash.com/photo-1503387762-592dee58c460?q=80&w=800",
			Progress:       45,
			StartDate:      "2024-01-10",
			CompletionDate: "2024-08-15",
			Gallery: []types.GalleryItem{
				{URL: "https://images.unsplash.com/photo-1581094794329-c8112a89af12?q=80&w=800", Caption: "Fase de Alvenaria"},
				{URL: "https://images.unsplash.com/photo-1541888946425-d81bb19480c5?q=80&w=800", Caption: "Estrutura de Betão"},
			},
		},
		{
			Title:          "Escritório Hub Tecnológico",
			Description:    "Adaptação de espaço comercial para escritório open-space, com divisórias em pladur e sistemas HVAC.",
			Category:       types.CategoryCommercial,
			Status:         types.StatusInProgress,
			ImageURL:       "https://images.unsplash.com/photo-1497366216548-37526070297c?q=80&w=800",
			Progress:       72,
			StartDate:      "2023-12-05",
			CompletionDate: "2024-06-20",
		},
	}
}

func seedReviews() []types.Review {
	return []types.Review{
		{
			ClientName:  "Ana Pereira",
			Rating:      5,
			Comment:     "Serviço impecável! A equipa foi pontual, limpa e entregou a obra antes do prazo. Recomendo muito.",
			AvatarURL:   "https://picsum.photos/id/64/100/100",
			Approved:    true,
			SubmittedAt: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			ClientName:  "Carlos Mendes",
			Rating:      5,
			Comment:     "Transformaram minha cozinha completamente. O acabamento é de primeira qualidade.",
			AvatarURL:   "https://picsum.photos/id/91/100/100",
			Approved:    true,
			SubmittedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
