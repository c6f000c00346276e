package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr     string         `mapstructure:"addr"`
	Database DatabaseConfig `mapstructure:"database"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	BTC      BTCConfig      `mapstructure:"btc"`
	ETH      EthConfig      `mapstructure:"eth"`
	Cashier  CashierConfig  `mapstructure:"cashier"`
	Webhooks WebhookConfig  `mapstructure:"webhooks"`
}

type DatabaseConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Addr     string `mapstructure:"addr"`
	Name     string `mapstructure:"name"`
}

type WalletConfig struct {
	// Mnemonic seeds the HD tree all deposit addresses and hot-wallet keys
	// derive from. Same mnemonic, same addresses.
	Mnemonic   string `mapstructure:"mnemonic"`
	Passphrase string `mapstructure:"passphrase"`
	MainNet    bool   `mapstructure:"main_net"`
}

type BTCConfig struct {
	PushURL string `mapstructure:"push_url"`
}

type EthConfig struct {
	RPC     string `mapstructure:"rpc"`
	ChainID int64  `mapstructure:"chain_id"`
}

type CashierConfig struct {
	// AutoDispatch broadcasts a withdrawal as soon as an admin approves it.
	// Deployments that want a separate manual trigger set this to false and
	// call the dispatch endpoint themselves.
	AutoDispatch     bool                   `mapstructure:"auto_dispatch"`
	BroadcastTimeout time.Duration          `mapstructure:"broadcast_timeout"`
	Limits           map[string]LimitConfig `mapstructure:"limits"`
}

type LimitConfig struct {
	MinAmount      float64 `mapstructure:"min_amount"`
	MaxDailyAmount float64 `mapstructure:"max_daily_amount"`
	RequireKYC     bool    `mapstructure:"require_kyc"`
}

type WebhookConfig struct {
	// AdminURL receives withdrawal.pending events for the manual review queue.
	AdminURL string `mapstructure:"admin_url"`
	AdminKey string `mapstructure:"admin_key"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("addr", ":8080")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.addr", "127.0.0.1:3306")
	v.SetDefault("database.name", "cashier-go")
	v.SetDefault("cashier.auto_dispatch", true)
	v.SetDefault("cashier.broadcast_timeout", 30*time.Second)
	v.SetDefault("cashier.limits.btc.min_amount", 0.001)
	v.SetDefault("cashier.limits.btc.max_daily_amount", 1)
	v.SetDefault("cashier.limits.btc.require_kyc", true)
	v.SetDefault("cashier.limits.eth.min_amount", 0.01)
	v.SetDefault("cashier.limits.eth.max_daily_amount", 10)
	v.SetDefault("cashier.limits.eth.require_kyc", true)

	// A missing config file means run on defaults and env. Viper only
	// reports ConfigFileNotFoundError when searching config paths; with an
	// explicit file it surfaces the bare fs error instead.
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
