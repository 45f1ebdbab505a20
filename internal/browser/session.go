// Package browser owns the live WebDriver session: navigation, bounded
// element waits, and cleanup. One Session is exclusive to one run and must
// be closed on every exit path.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"golang.org/x/time/rate"

	"github.com/Affan1415/auto-apply/internal/config"
)

var ErrNoElement = errors.New("no matching element")

// Element is the subset of selenium.WebElement the engine interacts with.
// Narrowing it here keeps the form and apply layers testable without a
// running browser.
type Element interface {
	Click() error
	SendKeys(keys string) error
	Clear() error
	Text() (string, error)
	TagName() (string, error)
	GetAttribute(name string) (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)
}

type Session struct {
	wd  selenium.WebDriver
	svc *selenium.Service // nil when attached to a remote hub

	navTimeout  time.Duration
	pageLimiter *rate.Limiter // floor between successive page loads
}

// Open starts (or attaches to) a WebDriver and returns the session. The
// caller owns Close.
func Open(cfg config.Config) (*Session, error) {
	caps := selenium.Capabilities{"browserName": "chrome"}

	args := []string{
		fmt.Sprintf("--window-size=%d,%d", cfg.WebDriver.ViewportWidth, cfg.WebDriver.ViewportHeight),
		"--disable-gpu",
		"--disable-notifications",
		"--no-sandbox",
	}
	if cfg.WebDriver.Headless {
		args = append(args, "--headless=new")
	}
	caps.AddChrome(chrome.Capabilities{Args: args})

	urlPrefix := cfg.WebDriver.RemoteURL
	var svc *selenium.Service
	if urlPrefix == "" {
		var err error
		svc, err = selenium.NewChromeDriverService(cfg.WebDriver.ChromeDriverPath, cfg.WebDriver.Port)
		if err != nil {
			return nil, fmt.Errorf("start chromedriver: %w", err)
		}
		urlPrefix = fmt.Sprintf("http://localhost:%d/wd/hub", cfg.WebDriver.Port)
	}

	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		if svc != nil {
			_ = svc.Stop()
		}
		return nil, fmt.Errorf("connect to webdriver: %w", err)
	}

	navTimeout := time.Duration(cfg.WebDriver.NavTimeoutSeconds) * time.Second
	_ = wd.SetPageLoadTimeout(navTimeout)
	_ = wd.ResizeWindow("", cfg.WebDriver.ViewportWidth, cfg.WebDriver.ViewportHeight)

	return &Session{
		wd:          wd,
		svc:         svc,
		navTimeout:  navTimeout,
		pageLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// Close quits the browser and stops any locally started driver service.
// Safe to call on a nil session.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.wd != nil {
		err = s.wd.Quit()
	}
	if s.svc != nil {
		if serr := s.svc.Stop(); err == nil {
			err = serr
		}
	}
	return err
}

// Navigate loads url, bounded by the configured page-load timeout. A small
// rate limiter keeps successive page loads at most one per second.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.navTimeout)
	defer cancel()
	if err := s.pageLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) CurrentURL() (string, error) { return s.wd.CurrentURL() }

func (s *Session) PageSource() (string, error) { return s.wd.PageSource() }

// FindAll returns every match for (by, value). An empty result is not an
// error; webdriver "no such element" is mapped to an empty slice too.
func (s *Session) FindAll(by, value string) ([]Element, error) {
	els, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

// FirstInteractable returns the first visible, enabled match for (by, value).
func (s *Session) FirstInteractable(by, value string) (Element, error) {
	els, _ := s.FindAll(by, value)
	for _, el := range els {
		if shown, _ := el.IsDisplayed(); !shown {
			continue
		}
		if enabled, _ := el.IsEnabled(); !enabled {
			continue
		}
		return el, nil
	}
	return nil, ErrNoElement
}

// WaitAnyVisible polls until one of the CSS selectors has a visible match,
// returning the selector that hit. The timeout covers the whole list; each
// pass tries the selectors in their configured order.
func (s *Session) WaitAnyVisible(selectors []string, timeout time.Duration) (string, Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		for _, sel := range selectors {
			if el, err := s.FirstInteractable(selenium.ByCSSSelector, sel); err == nil {
				return sel, el, nil
			}
		}
		if time.Now().After(deadline) {
			return "", nil, fmt.Errorf("%w: none of %d selectors appeared within %s", ErrNoElement, len(selectors), timeout)
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// Click scrolls el into view and clicks it, falling back to a synthetic JS
// click when the native one is intercepted.
func (s *Session) Click(el Element) error {
	we, ok := el.(selenium.WebElement)
	if !ok {
		return el.Click()
	}
	_, _ = s.wd.ExecuteScript(`arguments[0].scrollIntoView({block:"center"});`, []interface{}{we})
	if err := we.Click(); err == nil {
		return nil
	}
	_, err := s.wd.ExecuteScript(`arguments[0].click();`, []interface{}{we})
	return err
}

// ExecScript runs JS in the page. Element args are passed through to the
// driver when they are real WebElements.
func (s *Session) ExecScript(script string, args []interface{}) (interface{}, error) {
	conv := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(selenium.WebElement); ok {
			conv[i] = el
		} else if el, ok := a.(Element); ok {
			if we, ok := el.(selenium.WebElement); ok {
				conv[i] = we
			} else {
				conv[i] = el
			}
		} else {
			conv[i] = a
		}
	}
	return s.wd.ExecuteScript(script, conv)
}
