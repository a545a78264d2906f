package config

type AppConfig struct {
	Server ServerConfig
	Bot    BotConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Bot:    botCfg,
		Log:    logCfg,
	}, nil
}
