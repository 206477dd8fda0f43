package backend

import (
	"fmt"

	"github.com/clubadmin/clubadmin/internal/xtime"
)

type Config struct {
	URL              string         `toml:"url"`
	ImageURL         string         `toml:"image_url"`
	ImageStripPrefix string         `toml:"image_strip_prefix"`
	ProxyImages      bool           `toml:"proxy_images"`
	Timeout          xtime.Duration `toml:"timeout"`
	Every            xtime.Duration `toml:"every"`
	Burst            int            `toml:"burst"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n URL: %s\n ImageURL: %s\n ImageStripPrefix: %s\n ProxyImages: %t\n Timeout: %s\n Every: %s\n Burst: %d",
		c.URL,
		c.ImageURL,
		c.ImageStripPrefix,
		c.ProxyImages,
		c.Timeout,
		c.Every,
		c.Burst,
	)
}
