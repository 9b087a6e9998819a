package models

// InvoiceCategory is the closed classification set for remittance lines.
type InvoiceCategory string

// Invoice categories. The Turkish display values are the contract with the
// report layer: they appear verbatim in the "Fatura Tipi" column.
const (
	CategoryWholesale          InvoiceCategory = "Toptan Satış"
	CategoryQuantityVariance   InvoiceCategory = "Miktar Farkı Faturası"
	CategoryPriceVariance      InvoiceCategory = "Fiyat Farkı Faturası"
	CategoryArchivedVariance   InvoiceCategory = "Arşiv Fark Faturası"
	CategoryShortageClaim      InvoiceCategory = "Eksik Mal Bildirimi"
	CategoryShortageClaimRev   InvoiceCategory = "Eksik Mal Bildirimi İptali"
	CategoryPriceClaim         InvoiceCategory = "Fiyat Farkı Bildirimi"
	CategoryPriceClaimRev      InvoiceCategory = "Fiyat Farkı Bildirimi İptali"
	CategoryCooperation        InvoiceCategory = "Ticari İşbirliği"
	CategoryReturn             InvoiceCategory = "İade Faturası"
	CategoryOutboundTransfer   InvoiceCategory = "Giden Havale"
	CategoryProvision          InvoiceCategory = "Karşılık Faturası"
	CategoryBankFee            InvoiceCategory = "Banka Masrafı"
	CategoryInternalTransfer   InvoiceCategory = "Virman Kaydı"
	CategoryAccountsReceivable InvoiceCategory = "Alacak Dekontu"
	CategoryDispute            InvoiceCategory = "İtiraz Kaydı"
	CategoryVarianceClearing   InvoiceCategory = "Miktar Farkı Kapatma"
	CategoryDataIssue          InvoiceCategory = "Manuel Düzeltme"
	CategoryUnclassified       InvoiceCategory = "Sınıflandırılmamış"
)
