package client

import (
	"context"
	"fmt"

	"github.com/appwrite-go/client-go/value"
)

// Converter turns a decoded response mapping into a typed value.
type Converter[T any] func(value.Map) (T, error)

// Do sends r and returns the response as a decoded mapping, or the success
// marker for empty bodies.
func (c *Client) Do(ctx context.Context, r Request) (Result, error) {
	return c.do(ctx, r, expectMap)
}

func (c *Client) do(ctx context.Context, r Request, want expect) (Result, error) {
	req, err := c.buildRequest(ctx, r)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.execute(req)
	if err != nil {
		return Result{}, err
	}

	return c.interpret(resp, want)
}

// Call sends r and converts the response into T.
//
//   - T bool: any successful response yields true.
//   - T []byte: the raw body is returned.
//   - Empty body: true when T can hold a bool. Otherwise convert receives an
//     empty mapping; without convert, T must hold a value.Map or a
//     *DecodeError is returned.
//   - Otherwise the body is decoded as a JSON object and passed to convert.
//     Without convert, T must be able to hold a value.Map.
func Call[T any](ctx context.Context, c *Client, r Request, convert Converter[T]) (T, error) {
	var zero T
	res, err := c.do(ctx, r, expectationOf[T]())
	if err != nil {
		return zero, err
	}
	return resultAs(res, convert)
}

func expectationOf[T any]() expect {
	var zero T
	switch any(zero).(type) {
	case bool:
		return expectBool
	case []byte:
		return expectBytes
	default:
		return expectMap
	}
}

func resultAs[T any](res Result, convert Converter[T]) (T, error) {
	var zero T

	switch res.kind {
	case ResultSuccess:
		if v, ok := any(true).(T); ok {
			return v, nil
		}
		if v, ok := any(res).(T); ok {
			return v, nil
		}
		// An empty mapping lets the converter reject the missing content.
		if convert != nil {
			return convert(value.Map{})
		}
		if v, ok := any(value.Map{}).(T); ok {
			return v, nil
		}
		return zero, &DecodeError{Err: fmt.Errorf("empty response body cannot be converted to %T", zero)}
	case ResultBytes:
		if v, ok := any(res.bytes).(T); ok {
			return v, nil
		}
		return zero, fmt.Errorf("cannot assign raw response to %T", zero)
	}

	if convert != nil {
		return convert(res.m)
	}
	if v, ok := any(res.m).(T); ok {
		return v, nil
	}
	if v, ok := any(res).(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("cannot assign response mapping to %T without a converter", zero)
}
