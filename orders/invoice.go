package orders

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/thor8126/ProShop/utils"
)

// PrintInvoice renders a PDF receipt for an order with a QR code of
// the order id.
func (s *OrderService) PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := s.store.GetByID(r.Context(), ps.ByName("id"))
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderID, qrcode.Medium, 128)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Order Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Payment method: %s", order.PaymentMethod))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, item := range order.OrderItems {
		pdf.Cell(0, 6, fmt.Sprintf("%d x %s @ %.2f", item.Quantity, item.Name, item.Price))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Items: %.2f", order.ItemsPrice))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tax: %.2f", order.TaxPrice))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Shipping: %.2f", order.ShippingPrice))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalPrice))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	paid := "not paid"
	if order.IsPaid && order.PaidAt != nil {
		paid = "paid at " + order.PaidAt.Format("02 Jan 2006 15:04")
	}
	delivered := "not delivered"
	if order.IsDelivered && order.DeliveredAt != nil {
		delivered = "delivered at " + order.DeliveredAt.Format("02 Jan 2006 15:04")
	}
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s, %s", paid, delivered))

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
