package filings

const sampleFiling = `<SEC-DOCUMENT>0000102909-15-000123.txt : 20150302
<SEC-HEADER>
ACCESSION NUMBER:		0000102909-15-000123
CONFORMED SUBMISSION TYPE:	N-Q
PUBLIC DOCUMENT COUNT:		2
CONFORMED PERIOD OF REPORT:	20141231
FILED AS OF DATE:		20150302
</SEC-HEADER>
<DOCUMENT>
<TYPE>N-Q
<TEXT>
<html><body>
<p>Schedule of Investments</p>
<table>
  <tr><th></th><th>Shares</th><th>Market Value ($000)</th></tr>
  <tr><td colspan="3">Common Stocks (99.1%)</td></tr>
  <tr><td>Apple Inc.</td><td>1,234,567</td><td>136,271</td></tr>
  <tr><td>General Motors Co.</td><td>52,000</td><td></td></tr>
  <tr><td>&nbsp;</td><td>&nbsp;</td><td></td></tr>
  <tr><td>Total Common Stocks</td><td></td><td>140,000</td></tr>
</table>
<table>
  <tr><td>General Electric Co.</td><td>98,765</td><td>2,495</td></tr>
  <tr><td>Apple Inc.</td><td>1,234,567</td><td>136,271</td></tr>
  <tr><td>Microsoft Corp.</td><td>10</td><td>1</td></tr>
</table>
</body></html>
</TEXT>
</DOCUMENT>
</SEC-DOCUMENT>
`

const companyCSV = `"Symbol","Name","LastSale","MarketCap","IPOyear","Sector","industry","Summary Quote",
"AAPL","Apple Inc.","98.12","$543.7B","1980","Technology","Computer Manufacturing","https://www.nasdaq.com/symbol/aapl",
"GE","General Electric Company","30.1","$276B","n/a","Energy","Consumer Electronics/Appliances","https://www.nasdaq.com/symbol/ge",
"GM","General Motors Company","31.2","$49B","2010","Capital Goods","Auto Manufacturing","https://www.nasdaq.com/symbol/gm",
`
