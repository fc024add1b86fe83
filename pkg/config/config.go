package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Log      LogConfig      `mapstructure:"log"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Session  SessionConfig  `mapstructure:"session"`
}

// ServerConfig is the gRPC health endpoint used by orchestrators.
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type GatewayConfig struct {
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig selects the key-value backend behind cart, wishlist and
// auth persistence: "memory", "redis" or "etcd".
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	Namespace string `mapstructure:"namespace"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MySQLConfig backs the order history and the account directory when
// Enabled is set; otherwise both live in memory.
type MySQLConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// PricingConfig holds the cart business constants. Amounts are decimal
// strings so they never pass through float64.
type PricingConfig struct {
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
	ShippingFee           string `mapstructure:"shipping_fee"`
	TaxRate               string `mapstructure:"tax_rate"`
	ExpressFee            string `mapstructure:"express_fee"`
	OvernightFee          string `mapstructure:"overnight_fee"`
}

type AuthConfig struct {
	Latency    time.Duration `mapstructure:"latency"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type CheckoutConfig struct {
	Latency time.Duration `mapstructure:"latency"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "storefront")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.allow_origins", []string{"*"})
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.namespace", "wish-area")
	v.SetDefault("etcd.endpoints", []string{"localhost:2379"})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/wish-area/")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("mysql.enabled", false)
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "storefront")
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("mysql.max_open_conns", 20)
	v.SetDefault("mongodb.enabled", false)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "storefront")
	v.SetDefault("mongodb.collection", "audit_logs")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("pricing.free_shipping_threshold", "100")
	v.SetDefault("pricing.shipping_fee", "15")
	v.SetDefault("pricing.tax_rate", "0.08")
	v.SetDefault("pricing.express_fee", "25")
	v.SetDefault("pricing.overnight_fee", "45")
	v.SetDefault("auth.latency", 500*time.Millisecond)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("checkout.latency", 2*time.Second)
	v.SetDefault("checkout.timeout", 10*time.Second)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.token_ttl", 24*time.Hour)
}

// Load reads configPath (YAML) on top of the defaults. An empty path yields
// the defaults plus any STOREFRONT_* environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
