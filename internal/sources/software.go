package sources

import "github.com/aa-remote/site/internal/domain"

// SoftwareCatalog returns the fixed software product list. The slice is
// rebuilt on every call so callers can reorder it freely.
func SoftwareCatalog() []domain.SoftwareProduct {
	products := make([]domain.SoftwareProduct, len(softwareProducts))
	copy(products, softwareProducts)
	return products
}

// SoftwareCategories lists the category tabs shown for the software collection.
func SoftwareCategories() []string {
	return []string{"All", "Productivity", "Creative", "Design", "Development", "Communication", "Entertainment", "Media"}
}

// GameCategories lists the category tabs shown for the games collection.
func GameCategories() []string {
	return []string{"All", "Action", "RPG", "Shooter", "Strategy", "Sandbox", "Simulation"}
}

var softwareProducts = []domain.SoftwareProduct{
	{
		Name:        "Microsoft Office Suite",
		Description: "Complete productivity suite including Word, Excel, PowerPoint, and more.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 10 or later, 4GB RAM, 4GB disk space",
			Mac:     "macOS 10.14 or later, 4GB RAM, 10GB disk space",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Productivity",
		ReleaseYear: 2021,
		Popularity:  98,
	},
	{
		Name:        "Adobe Creative Cloud",
		Description: "Professional creative tools including Photoshop, Illustrator, Premiere Pro, and more.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 10 (64-bit), 8GB RAM, 4GB disk space",
			Mac:     "macOS 10.15 or later, 8GB RAM, 4GB disk space",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Creative",
		ReleaseYear: 2023,
		Popularity:  95,
	},
	{
		Name:        "AutoCAD",
		Description: "Industry-leading CAD software for 2D and 3D design, drafting, and modeling.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 10/11 (64-bit), 16GB RAM, 10GB disk space, DirectX 11 compatible graphics",
			Mac:     "macOS 11 or later, 16GB RAM, 10GB disk space",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Design",
		ReleaseYear: 2024,
		Popularity:  92,
	},
	{
		Name:        "Visual Studio Code",
		Description: "Free, powerful code editor with IntelliSense, debugging, and Git integration.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, 1.6 GHz processor, 1GB RAM",
			Mac:     "macOS 10.11 or later, 1GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Development",
		ReleaseYear: 2024,
		Popularity:  97,
	},
	{
		Name:        "Zoom",
		Description: "Video conferencing and online meeting platform for remote work.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, Dual-core 2GHz or higher, 4GB RAM",
			Mac:     "macOS 10.10 or later, Dual-core 2GHz or higher, 4GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Communication",
		ReleaseYear: 2023,
		Popularity:  93,
	},
	{
		Name:        "Spotify",
		Description: "Stream millions of songs and podcasts with personalized playlists.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, 1GB RAM",
			Mac:     "macOS 10.10 or later, 1GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Entertainment",
		ReleaseYear: 2022,
		Popularity:  90,
	},
	{
		Name:        "VLC Media Player",
		Description: "Free, open-source multimedia player for all formats.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, 1GB RAM",
			Mac:     "macOS 10.10 or later, 1GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Media",
		ReleaseYear: 2023,
		Popularity:  89,
	},
	{
		Name:        "Slack",
		Description: "Team collaboration and messaging platform for businesses.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, 2GB RAM",
			Mac:     "macOS 10.10 or later, 2GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Communication",
		ReleaseYear: 2022,
		Popularity:  91,
	},
	{
		Name:        "Notion",
		Description: "All-in-one workspace for notes, tasks, wikis, and databases.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 7 or later, 2GB RAM",
			Mac:     "macOS 10.11 or later, 2GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Productivity",
		ReleaseYear: 2024,
		Popularity:  94,
	},
	{
		Name:        "Figma Desktop",
		Description: "Collaborative interface design tool for teams.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 10 or later, 4GB RAM",
			Mac:     "macOS 10.13 or later, 4GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Design",
		ReleaseYear: 2023,
		Popularity:  93,
	},
	{
		Name:        "Blender",
		Description: "Free 3D creation suite for modeling, animation, and rendering.",
		Requirements: domain.SoftwareRequirements{
			Windows: "Windows 8.1 or later, 8GB RAM, 2GB VRAM",
			Mac:     "macOS 10.13 or later, 8GB RAM",
		},
		Platforms:   []string{"Windows", "Mac"},
		Category:    "Creative",
		ReleaseYear: 2024,
		Popularity:  88,
	},
}
