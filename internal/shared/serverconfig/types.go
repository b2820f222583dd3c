package serverconfig

type Config struct {
	GameServer GameServerConfig `yaml:"game_server" mapstructure:"game_server"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Postgres   PostgresConfig   `yaml:"postgres" mapstructure:"postgres"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Security   SecurityConfig   `yaml:"security" mapstructure:"security"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
	Logic      LogicConfig      `yaml:"logic" mapstructure:"logic"`
}

type GameServerConfig struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	GRPCPort     int    `yaml:"grpc_port" mapstructure:"grpc_port" validate:"min=0,max=65535"`
	AskTimeoutMS int    `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms" validate:"min=0"`
	FlushEveryMS int    `yaml:"flush_every_ms" mapstructure:"flush_every_ms" validate:"min=0"`
	IdleTimeoutS int    `yaml:"idle_timeout_s" mapstructure:"idle_timeout_s" validate:"min=0"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver" validate:"omitempty,oneof=memory mongodb mysql postgres sqlite"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type SecurityConfig struct {
	JWTSecret  string  `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	NeedSecret bool    `yaml:"need_secret" mapstructure:"need_secret"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"min=0"`
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst" validate:"min=0"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type LogicConfig struct {
	MapData           string `yaml:"map_data" mapstructure:"map_data"`
	ServerID          int    `yaml:"server_id" mapstructure:"server_id"`
	DefaultDifficulty int    `yaml:"default_difficulty" mapstructure:"default_difficulty" validate:"min=0,max=2"`
}
