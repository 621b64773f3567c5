package model

import "time"

// Brand は化粧品ブランドのカタログ情報を表す。
type Brand struct {
	ID        string
	Name      string
	LogoURL   string
	Country   string
	CreatedAt time.Time
}

// Product はブランドに属する製品のカタログ情報を表す。
type Product struct {
	ID        string
	BrandID   string
	Name      string
	Category  string
	CreatedAt time.Time
}
