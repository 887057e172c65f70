package public

import (
	"context"
	"sync"
	"time"
)

const CarouselInterval = 5 * time.Second

// Carousel листает слайды по таймеру. Ручное переключение меняет текущий слайд,
// таймер при этом продолжает идти.
type Carousel struct {
	mu       sync.Mutex
	count    int
	current  int
	interval time.Duration
	onChange func(int)
}

func NewCarousel(count int, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = CarouselInterval
	}
	return &Carousel{count: count, interval: interval}
}

// OnChange вызывается после каждой смены слайда (с номером нового слайда).
func (c *Carousel) OnChange(f func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = f
}

func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Carousel) SetCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = n
	if n == 0 || c.current >= n {
		c.current = 0
	}
}

func (c *Carousel) move(f func(cur, n int) int) {
	c.mu.Lock()
	if c.count == 0 {
		c.mu.Unlock()
		return
	}
	c.current = f(c.current, c.count)
	cur, cb := c.current, c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(cur)
	}
}

func (c *Carousel) Next() { c.move(func(cur, n int) int { return (cur + 1) % n }) }

func (c *Carousel) Prev() { c.move(func(cur, n int) int { return (cur - 1 + n) % n }) }

// GoTo переходит на слайд i; номер вне диапазона игнорируется.
func (c *Carousel) GoTo(i int) {
	c.move(func(cur, n int) int {
		if i < 0 || i >= n {
			return cur
		}
		return i
	})
}

// Run листает слайды до отмены ctx.
func (c *Carousel) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Next()
		}
	}
}

// Start запускает Run в отдельной горутине.
func (c *Carousel) Start(ctx context.Context) {
	go c.Run(ctx)
}
