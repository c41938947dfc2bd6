package main

import (
	"fmt"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/models"

	"github.com/shopspring/decimal"
)

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
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", "", ""); err != nil {
		stdLog.Printf("Failed to bootstrap admin: %v", err)
	}

	services := []models.Service{
		{
			Slug:        "asphalt-paving",
			Name:        "Asphalt Paving",
			Summary:     "Full-depth asphalt paving for driveways, parking lots and private roads.",
			Description: "New construction and full replacement paving. We handle grading, base preparation, binder and surface courses, and final compaction with our own crews and equipment.",
			Features:    models.StringArray([]string{"Grading and base prep", "Commercial and residential", "2-year workmanship warranty"}),
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(4.50)),
			PriceType:   constants.PriceTypeFixed,
			IsActive:    true,
			IsFeatured:  true,
			SortOrder:   300,
		},
		{
			Slug:        "sealcoating",
			Name:        "Sealcoating",
			Summary:     "Protective sealcoating that extends pavement life and restores appearance.",
			Description: "Coal-tar-free sealcoat applied in two coats with crack cleaning and edge work included. Recommended every two to three years for trafficked surfaces.",
			Features:    models.StringArray([]string{"Two-coat application", "Crack cleaning included", "Eco-friendly sealant"}),
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(0.35)),
			PriceType:   constants.PriceTypeFixed,
			IsActive:    true,
			SortOrder:   250,
		},
		{
			Slug:        "crack-repair",
			Name:        "Crack Filling & Repair",
			Summary:     "Hot rubberized crack filling to stop water intrusion before it spreads.",
			Description: "Routing, cleaning and hot-pour rubberized filling of cracks up to one inch wide. Stops freeze-thaw damage early and keeps the base dry.",
			Features:    models.StringArray([]string{"Hot-pour rubberized filler", "Routing and cleaning", "Same-day completion"}),
			PriceType:   constants.PriceTypeHourly,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(95)),
			IsActive:    true,
			SortOrder:   200,
		},
		{
			Slug:        "parking-lot-striping",
			Name:        "Parking Lot Striping",
			Summary:     "Layout and line striping for new lots and re-stripes, ADA compliant.",
			Description: "Stall layout, fire lanes, ADA stalls and signage, directional arrows and curb painting with fast-dry traffic paint.",
			Features:    models.StringArray([]string{"ADA compliant layouts", "Fast-dry traffic paint", "Night and weekend scheduling"}),
			PriceType:   constants.PriceTypeProject,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(850)),
			IsActive:    true,
			SortOrder:   150,
		},
		{
			Slug:        "site-excavation",
			Name:        "Site Excavation & Grading",
			Summary:     "Excavation, grading and aggregate base work for paving projects.",
			Description: "Cut and fill, laser grading, drainage correction and compacted aggregate base installation ahead of paving.",
			Features:    models.StringArray([]string{"Laser-guided grading", "Drainage correction", "Compaction testing"}),
			PriceType:   constants.PriceTypeCustom,
			IsActive:    true,
			SortOrder:   100,
		},
	}

	for _, svc := range services {
		var existing models.Service
		if err := models.DB.Where("slug = ?", svc.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&svc).Error; err != nil {
				stdLog.Printf("Failed to create service %s: %v", svc.Slug, err)
			} else {
				stdLog.Printf("Created service: %s", svc.Slug)
			}
		} else {
			stdLog.Printf("Service already exists: %s", svc.Slug)
		}
	}

	serviceIDs := map[string]uint{}
	var serviceList []models.Service
	if err := models.DB.Where("slug IN ?", []string{"asphalt-paving", "sealcoating", "parking-lot-striping"}).Find(&serviceList).Error; err != nil {
		stdLog.Printf("Failed to load services: %v", err)
	}
	for _, svc := range serviceList {
		serviceIDs[svc.Slug] = svc.ID
	}

	now := time.Now()
	retailDone := now.AddDate(0, -2, 0)
	retailStart := retailDone.AddDate(0, 0, -18)
	hoaDone := now.AddDate(0, -5, 0)
	hoaStart := hoaDone.AddDate(0, 0, -30)
	schoolStart := now.AddDate(0, 0, -10)

	pavingID := serviceIDs["asphalt-paving"]
	sealID := serviceIDs["sealcoating"]
	stripeID := serviceIDs["parking-lot-striping"]

	projects := []models.Project{
		{
			Slug:        "riverside-retail-lot",
			Title:       "Riverside Retail Center Parking Lot",
			Summary:     "Full reconstruction of a 4,800 m² retail parking lot.",
			Description: "Removed failed pavement, corrected drainage to two new catch basins, installed 20 cm of compacted base and a two-lift asphalt section. Striped for 212 stalls including 8 ADA stalls.",
			Client:      "Riverside Retail Partners",
			Location:    "Riverside, OH",
			Status:      constants.ProjectStatusCompleted,
			ServiceID:   optionalID(pavingID),
			AreaSqm:     4800,
			StartedAt:   &retailStart,
			CompletedAt: &retailDone,
			IsFeatured:  true,
			SortOrder:   300,
		},
		{
			Slug:        "maple-grove-hoa",
			Title:       "Maple Grove HOA Street Maintenance",
			Summary:     "Crack repair and sealcoating across 2.4 km of private streets.",
			Description: "Phased crack filling and two-coat sealcoat over three weekends to keep resident access open, followed by re-striping of guest parking areas.",
			Client:      "Maple Grove HOA",
			Location:    "Maple Grove Township",
			Status:      constants.ProjectStatusCompleted,
			ServiceID:   optionalID(sealID),
			AreaSqm:     14500,
			StartedAt:   &hoaStart,
			CompletedAt: &hoaDone,
			SortOrder:   200,
		},
		{
			Slug:        "lincoln-school-lot",
			Title:       "Lincoln Elementary Bus Loop",
			Summary:     "New bus loop and staff lot, scheduled around the school calendar.",
			Description: "New construction of a bus loop and 40-stall staff lot with concrete aprons, currently in the base and drainage phase.",
			Client:      "Lincoln School District",
			Location:    "Lincoln County",
			Status:      constants.ProjectStatusInProgress,
			ServiceID:   optionalID(stripeID),
			AreaSqm:     2100,
			StartedAt:   &schoolStart,
			SortOrder:   100,
		},
	}

	for _, proj := range projects {
		var existing models.Project
		if err := models.DB.Where("slug = ?", proj.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&proj).Error; err != nil {
				stdLog.Printf("Failed to create project %s: %v", proj.Slug, err)
			} else {
				stdLog.Printf("Created project: %s", proj.Slug)
			}
		} else {
			stdLog.Printf("Project already exists: %s", proj.Slug)
		}
	}

	published := now.AddDate(0, 0, -7)
	posts := []models.BlogPost{
		{
			Slug:        "when-to-sealcoat",
			Title:       "When Should You Sealcoat a New Driveway?",
			Excerpt:     "Sealing too early traps oils in fresh asphalt. Here is the timeline we recommend.",
			Content:     "New asphalt needs time to cure before its first sealcoat. We recommend waiting at least one full season, usually 6 to 12 months, so surface oils can oxidize.\n\nAfter the first application, a two-to-three year cycle keeps the surface flexible and water-tight. Watch for graying color and a rough, porous texture as signs the last coat has worn through.",
			Tags:        models.StringArray([]string{"sealcoating", "maintenance"}),
			Status:      constants.BlogStatusPublished,
			PublishedAt: &published,
		},
		{
			Slug:        "crack-repair-before-winter",
			Title:       "Why Crack Repair Before Winter Pays for Itself",
			Excerpt:     "Water in an open crack becomes ice, and ice becomes a pothole.",
			Content:     "Every open crack lets water reach the aggregate base. One freeze-thaw cycle can turn a hairline crack into a spall, and a winter of them into a pothole.\n\nHot-pour rubberized filler applied in fall costs a fraction of patching in spring. We rout, clean and fill in a single visit, and the surface is ready for traffic within the hour.",
			Tags:        models.StringArray([]string{"crack-repair", "winter"}),
			Status:      constants.BlogStatusPublished,
			PublishedAt: &published,
		},
		{
			Slug:        "ada-striping-checklist",
			Title:       "ADA Striping Checklist for Lot Owners",
			Excerpt:     "Stall counts, access aisles and signage requirements in one place.",
			Content:     "Draft checklist for the compliance series.",
			Tags:        models.StringArray([]string{"striping", "compliance"}),
			Status:      constants.BlogStatusDraft,
		},
	}

	for _, post := range posts {
		var existing models.BlogPost
		if err := models.DB.Where("slug = ?", post.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&post).Error; err != nil {
				stdLog.Printf("Failed to create post %s: %v", post.Slug, err)
			} else {
				stdLog.Printf("Created post: %s", post.Slug)
			}
		} else {
			stdLog.Printf("Post already exists: %s", post.Slug)
		}
	}

	var retailProject models.Project
	var retailProjectID *uint
	if err := models.DB.Where("slug = ?", "riverside-retail-lot").First(&retailProject).Error; err == nil {
		retailProjectID = &retailProject.ID
	}

	testimonials := []models.Testimonial{
		{
			AuthorName: "Dana Whitfield",
			Company:    "Riverside Retail Partners",
			Content:    "The lot was torn out and repaved in under three weeks with zero disruption to our anchor tenants. Drainage issues we fought for years are gone.",
			Rating:     5,
			ProjectID:  retailProjectID,
			IsApproved: true,
			SortOrder:  200,
		},
		{
			AuthorName: "Marcus Lee",
			Company:    "Maple Grove HOA",
			Content:    "Clear phasing plan, streets never fully closed, and the finished sealcoat looks brand new. Residents noticed.",
			Rating:     5,
			IsApproved: true,
			SortOrder:  100,
		},
		{
			AuthorName: "Priya Raman",
			Content:    "Quick quote turnaround and the crack repair crew showed up exactly when promised.",
			Rating:     4,
			IsApproved: false,
		},
	}

	for _, t := range testimonials {
		var existing models.Testimonial
		if err := models.DB.Where("author_name = ? AND content = ?", t.AuthorName, t.Content).First(&existing).Error; err != nil {
			if err := models.DB.Create(&t).Error; err != nil {
				stdLog.Printf("Failed to create testimonial from %s: %v", t.AuthorName, err)
			} else {
				stdLog.Printf("Created testimonial: %s", t.AuthorName)
			}
		} else {
			stdLog.Printf("Testimonial already exists: %s", t.AuthorName)
		}
	}

	fmt.Println("\nSeed data created successfully")
	fmt.Println("Summary:")
	fmt.Println("- 5 Services")
	fmt.Println("- 3 Projects")
	fmt.Println("- 3 Blog posts (2 published + 1 draft)")
	fmt.Println("- 3 Testimonials (2 approved + 1 pending)")
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
