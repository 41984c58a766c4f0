package config

import "strings"

// ServicesConfig holds the base URLs of the remote microservices.
type ServicesConfig interface {
	GetAccountServiceURL() string
	GetUserServiceURL() string
	GetProductServiceURL() string
	GetShoppingServiceURL() string
}

type Services struct {
	AccountURL  string `env:"ACCOUNT_SERVICE_URL" envDefault:"https://multivendorsystem-account-service.onrender.com"`
	UserURL     string `env:"USER_SERVICE_URL" envDefault:"https://multivendorapp-user-service.onrender.com"`
	ProductURL  string `env:"PRODUCT_SERVICE_URL" envDefault:"https://multivendorapp-products-microservice.onrender.com"`
	ShoppingURL string `env:"SHOPPING_SERVICE_URL" envDefault:"https://multivendorplatform-shopping-service.onrender.com"`
}

var _ ServicesConfig = Services{}

func (s Services) GetAccountServiceURL() string {
	return trimBase(s.AccountURL)
}

func (s Services) GetUserServiceURL() string {
	return trimBase(s.UserURL)
}

func (s Services) GetProductServiceURL() string {
	return trimBase(s.ProductURL)
}

func (s Services) GetShoppingServiceURL() string {
	return trimBase(s.ShoppingURL)
}

// Base URLs are joined with paths that start with "/".
func trimBase(url string) string {
	return strings.TrimRight(url, "/")
}
