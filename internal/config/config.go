package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Поддерживаемые хранилища
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Поддерживаемые движки OCR
const (
	EngineTesseract = "tesseract"
	EngineJSON      = "json"
)

// Storage настройки подключения к БД
type Storage struct {
	Driver        string `mapstructure:"driver"`
	DSN           string `mapstructure:"dsn"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name"`
	SchemaVersion int    `mapstructure:"schema_version"`
}

// OCR настройки внешнего движка распознавания
type OCR struct {
	Engine     string        `mapstructure:"engine"`
	Executable string        `mapstructure:"executable"`
	Languages  string        `mapstructure:"languages"`
	PSM        int           `mapstructure:"psm"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// Preprocess обрезка прозрачных полей и перевод в серое перед tesseract
	Preprocess bool `mapstructure:"preprocess"`
}

type Extractor struct {
	StrictDates bool `mapstructure:"strict_dates"`
}

type Pipeline struct {
	StopOnStorageError bool `mapstructure:"stop_on_storage_error"`
}

type Web struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Основная структура конфигурации
type Config struct {
	LogFilePath string    `mapstructure:"log_file_path"`
	LogLevel    string    `mapstructure:"log_level"`
	Storage     Storage   `mapstructure:"storage"`
	OCR         OCR       `mapstructure:"ocr"`
	Extractor   Extractor `mapstructure:"extractor"`
	Pipeline    Pipeline  `mapstructure:"pipeline"`
	Web         Web       `mapstructure:"web"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_file_path", "logs/labscan.log")
	v.SetDefault("log_level", "info")

	v.SetDefault("storage.driver", DriverMySQL)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.host", "127.0.0.1")
	v.SetDefault("storage.port", 3306)
	v.SetDefault("storage.user", "root")
	v.SetDefault("storage.password", "root")
	v.SetDefault("storage.name", "medical_tests")
	v.SetDefault("storage.schema_version", 2)

	v.SetDefault("ocr.engine", EngineTesseract)
	v.SetDefault("ocr.executable", "tesseract")
	v.SetDefault("ocr.languages", "rus+eng")
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.timeout", 60*time.Second)
	v.SetDefault("ocr.preprocess", false)

	v.SetDefault("extractor.strict_dates", false)
	v.SetDefault("pipeline.stop_on_storage_error", false)

	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", "8080")
}

// RegisterFlags добавляет общие флаги, которые перекрывают значения из файла
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "путь к config.yaml")
	fs.String("storage.driver", "", "хранилище: mysql, postgres или memory")
	fs.String("storage.dsn", "", "строка подключения к БД")
	fs.String("log_level", "", "уровень логирования: debug, info, warn, error")
}

// InitConfig читает config.yaml, переменные окружения LABSCAN_* и флаги.
// Отсутствие файла конфигурации не ошибка: используются значения по умолчанию.
func InitConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	path := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LABSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || !f.Changed {
				return
			}
			if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("ошибка привязки флагов: %w", bindErr)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate проверяет значения, которые нельзя исправить по умолчанию
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("неизвестное хранилище %q", c.Storage.Driver)
	}
	if c.Storage.SchemaVersion < 1 || c.Storage.SchemaVersion > 2 {
		return fmt.Errorf("неподдерживаемая версия схемы %d", c.Storage.SchemaVersion)
	}
	switch c.OCR.Engine {
	case EngineTesseract, EngineJSON:
	default:
		return fmt.Errorf("неизвестный движок OCR %q", c.OCR.Engine)
	}
	if c.OCR.Executable == "" {
		return errors.New("не указан исполняемый файл OCR")
	}
	return nil
}

// DatabaseDSN возвращает строку подключения для выбранного драйвера
func (s Storage) DatabaseDSN() string {
	if s.DSN != "" {
		return s.DSN
	}
	switch s.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(s.User, s.Password),
			Host:     fmt.Sprintf("%s:%d", s.Host, s.Port),
			Path:     "/" + s.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	default:
		mc := mysql.NewConfig()
		mc.User = s.User
		mc.Passwd = s.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", s.Host, s.Port)
		mc.DBName = s.Name
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	}
}

// Addr адрес веб-интерфейса
func (w Web) Addr() string {
	return w.Host + ":" + w.Port
}
