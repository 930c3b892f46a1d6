// Package payment implements the Payment aggregate, the merchant reference format
// and the verification rules applied to a provider's payment record before a
// payment is accepted as PAID.
package payment
