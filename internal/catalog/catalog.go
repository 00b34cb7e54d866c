package catalog

// Channel describes one premium channel on sale. Entries come from static
// configuration and never change at runtime.
type Channel struct {
	Key          string
	Name         string
	ChannelID    int64
	Price        int64
	ValidityDays int
	Description  string
}

// Catalog is a read-only lookup over the configured channels, indexed both
// by the short key used in callbacks and by the transport channel ID used
// for membership operations.
type Catalog struct {
	keys        []string
	byKey       map[string]Channel
	byChannelID map[int64]Channel
}

func New(channels []Channel) *Catalog {
	c := &Catalog{
		byKey:       make(map[string]Channel, len(channels)),
		byChannelID: make(map[int64]Channel, len(channels)),
	}
	for _, ch := range channels {
		if ch.Key == "" {
			continue
		}
		if _, exists := c.byKey[ch.Key]; exists {
			continue
		}
		c.keys = append(c.keys, ch.Key)
		c.byKey[ch.Key] = ch
		c.byChannelID[ch.ChannelID] = ch
	}
	return c
}

func (c *Catalog) ByKey(key string) (Channel, bool) {
	ch, ok := c.byKey[key]
	return ch, ok
}

func (c *Catalog) ByChannelID(id int64) (Channel, bool) {
	ch, ok := c.byChannelID[id]
	return ch, ok
}

// Keys returns the channel keys in configuration order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c *Catalog) Len() int {
	return len(c.keys)
}
