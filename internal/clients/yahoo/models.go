package yahoo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means Yahoo does not know the ticker
	ErrNotFound = errors.New("ticker not found")
	// ErrNoPriceData means the chart response held no usable closes
	ErrNoPriceData = errors.New("no price data returned")
)

// APIError represents a non-200 response from Yahoo Finance
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Endpoint    string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("yahoo %s: status %d: %s", e.Endpoint, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("yahoo %s: status %d", e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrNotFound
	}
	return nil
}

// chartResponse is the /v8/finance/chart payload
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiErrorBody `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol         string `json:"symbol"`
	ExchangeName   string `json:"exchangeName"`
	InstrumentType string `json:"instrumentType"`
	LongName       string `json:"longName"`
	ShortName      string `json:"shortName"`
	GMTOffset      int64  `json:"gmtoffset"`
}

type apiErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// searchResponse is the /v1/finance/search payload
type searchResponse struct {
	Quotes []searchQuote `json:"quotes"`
}

type searchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	QuoteType string `json:"quoteType"`
	Exchange  string `json:"exchange"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
}
