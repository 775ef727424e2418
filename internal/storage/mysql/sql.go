package mysql

const gatewaySettingsSQL = `
SELECT merchantID, extra1, extra2, extra3, extra4
FROM settingsGateway
WHERE gatewayIdentifier = 'Expedia' AND branchID = ?
`

// Keys are stored per generation and country; extra1 carries the secret.
const apiCredentialsSQL = `
SELECT ` + "`key`" + `, extra1
FROM settingsAPI
WHERE name = ? AND extra2 = ?
`

const consultantSettingsSQL = `
SELECT extra1, extra2
FROM consultantGatewaySettings
WHERE gatewayName = 'Expedia' AND consultantID = ?
`

const branchWideSettingsSQL = `
SELECT extra1, extra2
FROM consultantGatewaySettings
WHERE gatewayName = 'Expedia' AND branchID = ? AND extra2 = 'BRANCH-WIDE'
`

const officeWideSettingsSQL = `
SELECT extra1, extra2
FROM consultantGatewaySettings
WHERE gatewayName = 'Expedia' AND officeID = ? AND extra2 = 'OFFICE-WIDE'
`

const supplierIDSQL = `SELECT supplierID FROM supplier WHERE supplierCode = ?`

const productIDSQL = `SELECT productID FROM product WHERE productCode = ?`

const nextLocalSectorSQL = `
SELECT COALESCE(MAX(localSectorID), 0) + 1 FROM tripSector WHERE tripID = ?
`

const leadPassengerSQL = `
SELECT passengerID FROM tripPassenger
WHERE tripID = ? AND isLead = 1
ORDER BY passengerID
LIMIT 1
`

const insertSectorSQL = `
INSERT INTO tripSector
  (tripID, productID, supplierID, consultantID, passengerID, localSectorID,
   tripSectorStatusID, chargeTypeID, qty,
   travelDate, returnDate, ticketDate,
   unitPrice, fees, net, total,
   GST, commission, discount, isDiscountPerQty, fullFare, markup,
   isMarkupPerQty, fareOffered, pnrFees, pnrFeesGST, consolidatorFees,
   isActive, isClaimed, isVaried, isFee, isLocked, isQtyLocked,
   taxCodeID, taxesTaxCodeID, referenceNumber, referenceNumberOld, details,
   codeVersion, createdDate, dateActivated, dateModified)
VALUES
  (?, ?, ?, ?, ?, ?,
   ?, ?, ?,
   ?, ?, ?,
   ?, ?, ?, ?,
   ?, ?, ?, ?, ?, ?,
   ?, ?, ?, ?, ?,
   ?, ?, ?, ?, ?, ?,
   ?, ?, ?, '', ?,
   ?, NOW(), NOW(), NOW())
`

const insertItinerarySQL = `
INSERT INTO itineraryAux
  (tripID, tripSectorID, itineraryTypeID, subType, productID,
   segTattoo, segLineNumber, segName, classType, RLRCode,
   startDate, startTime, endDate, endTime,
   startLocation, endLocation, startPhoneNumber,
   inclusions, cancellationPolicy, notes, createdDate)
VALUES
  (?, ?, ?, ?, ?,
   '', NULL, ?, ?, '',
   ?, ?, ?, ?,
   ?, ?, ?,
   ?, ?, ?, NOW())
`

const insertImportLogSQL = `
INSERT INTO logExpediaImport
  (itineraryNumber, officeID, consultantID, tripID, dateCreated,
   request, response, apiSettings, keyVersion)
VALUES (?, ?, ?, ?, NOW(), ?, ?, ?, ?)
`

const insertImportErrorSQL = `
INSERT INTO logExpediaError
  (officeID, consultantID, tripID, logExpediaImportID, message, dateCreated)
VALUES (?, ?, ?, ?, ?, NOW())
`
