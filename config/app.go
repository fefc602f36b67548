package config

type App struct {
	Port                string `env:"APP_PORT" default:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	StripeAPIKey        string `env:"STRIPE_API_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `env:"CURRENCY" default:"usd"`
	Timezone            string `env:"HOSTEL_TZ" default:"UTC"`
	Env                 string `env:"APP_ENV" default:"dev"`
}
